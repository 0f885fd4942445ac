package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Lexpert Case AI API is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type chatRequest struct {
	Text  string `json:"text"`
	BotID string `json:"botId"`
}

type chatResponse struct {
	Text     string `json:"text"`
	Citation string `json:"citation"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reply, err := s.services.Chat.Reply(r.Context(), req.Text, req.BotID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Text: reply.Text, Citation: reply.Citation})
}

func (s *Server) handleListBots(w http.ResponseWriter, r *http.Request) {
	bots, err := s.services.Chat.ListBots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Bot{"bots": bots})
}

func (s *Server) handleGetBot(w http.ResponseWriter, r *http.Request) {
	bot, err := s.services.Chat.GetBot(r.Context(), r.PathValue("id"), identityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bot)
}

type ragRequest struct {
	BotID   string     `json:"bot_id"`
	Prompt  string     `json:"prompt"`
	Options ragOptions `json:"options"`
}

type ragOptions struct {
	TopK   int    `json:"top_k"`
	Tag    string `json:"tag"`
	CaseID string `json:"case_id"`
}

type ragSource struct {
	DocumentTitle string  `json:"document_title"`
	Tag           string  `json:"tag"`
	CaseID        string  `json:"case_id,omitempty"`
	Content       string  `json:"content"`
	Position      int     `json:"position"`
	Similarity    float64 `json:"similarity"`
}

type ragResponse struct {
	Response       string      `json:"response"`
	Sources        []ragSource `json:"sources"`
	ProcessingTime float64     `json:"processing_time"`
}

func (s *Server) handleRAG(w http.ResponseWriter, r *http.Request) {
	var req ragRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	opts := domain.RetrievalOptions{
		TopK:   req.Options.TopK,
		Tag:    req.Options.Tag,
		CaseID: req.Options.CaseID,
	}

	answer, err := s.services.Answer.Answer(r.Context(), req.Prompt, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	sources := make([]ragSource, 0, len(answer.Sources))
	for _, src := range answer.Sources {
		sources = append(sources, ragSource{
			DocumentTitle: src.DocumentTitle,
			Tag:           src.DocumentTag,
			CaseID:        src.CaseID,
			Content:       src.Chunk.Content,
			Position:      src.Chunk.Position,
			Similarity:    src.Similarity,
		})
	}

	writeJSON(w, http.StatusOK, ragResponse{
		Response:       answer.Text,
		Sources:        sources,
		ProcessingTime: answer.ProcessingSeconds,
	})
}

type uploadRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
	ContentType string `json:"contentType"`
	CaseID      string `json:"caseId"`
}

type uploadResponse struct {
	Success    bool   `json:"success"`
	FileName   string `json:"fileName"`
	FilePath   string `json:"filePath"`
	FileURL    string `json:"fileUrl"`
	DocumentID string `json:"documentId,omitempty"`
	Message    string `json:"message,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	receipt, err := s.services.Storage.Upload(r.Context(), driving.UploadRequest{
		FileName:      req.FileName,
		ContentBase64: req.FileContent,
		ContentType:   req.ContentType,
		CaseID:        req.CaseID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:    receipt.BlobStored,
		FileName:   receipt.FileName,
		FilePath:   receipt.Path,
		FileURL:    receipt.URL,
		DocumentID: receipt.DocumentID,
		Message:    fmt.Sprintf("File %s uploaded successfully", receipt.FileName),
		Warning:    receipt.Warning,
	})
}

type ingestRequest struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Tag      string         `json:"tag"`
	CaseID   string         `json:"caseId"`
	Metadata map[string]any `json:"metadata"`
}

type ingestResponse struct {
	DocumentID string  `json:"document_id"`
	ChunkCount int     `json:"chunk_count"`
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.services.Ingest.Ingest(r.Context(), driving.IngestRequest{
		Title:    req.Title,
		Content:  req.Content,
		Tag:      req.Tag,
		CaseID:   req.CaseID,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		DocumentID: result.DocumentID,
		ChunkCount: result.ChunkCount,
		Tag:        result.Tag,
		Confidence: result.Confidence,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Ingest.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type autoTagRequest struct {
	Content string `json:"content"`
}

type autoTagResponse struct {
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
}

func (s *Server) handleAutoTag(w http.ResponseWriter, r *http.Request) {
	var req autoTagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	suggestions, err := s.services.Tagger.Suggest(r.Context(), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := autoTagResponse{Tags: make([]string, 0, len(suggestions))}
	for i, sug := range suggestions {
		resp.Tags = append(resp.Tags, sug.Tag)
		if i == 0 {
			resp.Confidence = sug.Confidence
		}
	}

	// Nothing cleared the threshold: report the best single match instead
	// of an empty tag list.
	if len(resp.Tags) == 0 {
		tag, confidence, err := s.services.Tagger.Tag(r.Context(), req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Tags = append(resp.Tags, tag)
		resp.Confidence = confidence
	}

	writeJSON(w, http.StatusOK, resp)
}

type promptCoachRequest struct {
	Prompt string `json:"prompt"`
}

type promptCoachResponse struct {
	Tooltip     string                    `json:"tooltip"`
	Suggestions []driving.CoachSuggestion `json:"suggestions"`
}

func (s *Server) handlePromptCoach(w http.ResponseWriter, r *http.Request) {
	var req promptCoachRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, promptCoachResponse{
		Tooltip:     s.services.Coach.Tooltip(req.Prompt),
		Suggestions: s.services.Coach.Analyze(req.Prompt),
	})
}

type bucketRequest struct {
	BucketName string `json:"bucketName"`
	Public     bool   `json:"public"`
}

func (s *Server) handleCheckBucketExists(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	exists, err := s.services.Storage.BucketExists(r.Context(), req.BucketName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *Server) handleCreateBucket(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	existed, err := s.services.Storage.EnsureBucket(r.Context(), req.BucketName, req.Public)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bucketName": req.BucketName,
		"existed":    existed,
	})
}

type listedFile struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	SignedURL   string    `json:"signedUrl,omitempty"`
}

func (s *Server) handleListBucketFiles(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	files, err := s.services.Storage.ListFiles(r.Context(), bucket)
	if err != nil {
		writeError(w, err)
		return
	}

	listed := make([]listedFile, 0, len(files))
	for _, f := range files {
		listed = append(listed, listedFile{
			Name:        f.Name,
			Size:        f.Size,
			ContentType: f.ContentType,
			UpdatedAt:   f.UpdatedAt,
			SignedURL:   f.SignedURL,
		})
	}

	writeJSON(w, http.StatusOK, map[string][]listedFile{"files": listed})
}
