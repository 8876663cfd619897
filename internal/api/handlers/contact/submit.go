package contact

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"

	"portfolio/internal/api/handlers"
	"portfolio/internal/api/middleware"
	"portfolio/internal/core/contact"
	"portfolio/internal/i18n"
)

const maxBodyBytes = 64 << 10

// SubmitResponse is the JSON answer to a contact submission
type SubmitResponse struct {
	MessageKey string `json:"message_key"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// SubmitHandler accepts contact form submissions
type SubmitHandler struct {
	service contact.Service
}

// NewSubmitHandler creates a new contact submission handler
func NewSubmitHandler(service contact.Service) *SubmitHandler {
	return &SubmitHandler{service: service}
}

// HandleSubmit validates and stores a contact message.
// POST /api/contact with a JSON or form-encoded body
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	input, err := parseInput(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handlers.WriteError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", "Request body too large")
			return
		}
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	info := contact.RequestInfo{
		ClientIP:  middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := h.service.Submit(r.Context(), input, info)
	if err != nil {
		log.Printf("ERROR: Contact submission failed: %v", err)
		lang := i18n.Resolve(r, "")
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			i18n.T(lang, "contact_error_server"))
		return
	}

	// rejected input is a normal outcome for the form, not an HTTP error
	handlers.WriteJSON(w, http.StatusOK, SubmitResponse{
		Success:    result.Success,
		MessageKey: result.MessageKey,
		Message:    i18n.T(i18n.Resolve(r, ""), result.MessageKey),
	})
}

func parseInput(r *http.Request) (contact.Input, error) {
	var input contact.Input

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return input, err
		}
		return input, nil
	}

	if err := r.ParseForm(); err != nil {
		return input, err
	}
	input.Name = r.PostFormValue("name")
	input.Email = r.PostFormValue("email")
	input.Subject = r.PostFormValue("subject")
	input.Message = r.PostFormValue("message")
	input.Website = r.PostFormValue("website")

	return input, nil
}
