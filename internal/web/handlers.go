package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/JonMunkholm/userimport/internal/logging"
)

// maxBodySize bounds one create_user request body.
const maxBodySize = 1 << 20

// Error messages returned by the creation endpoint.
const (
	msgInvalidJSON   = "Invalid JSON data"
	msgEmailRequired = "Email is required"
	msgNotFound      = "Not Found"
	msgStoreFailed   = "Internal Server Error"
)

type createUserResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// handleCreateUser creates one user from a JSON object body. The body must be
// exactly one JSON value. Any truthy email is accepted, as the real endpoint
// does; numbers keep the text they were sent with.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.UseNumber()

	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil {
		respondError(w, r, err, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after JSON value")
		}
		respondError(w, r, err, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	email := body["email"]
	if !truthy(email) {
		respondError(w, r, nil, http.StatusBadRequest, msgEmailRequired)
		return
	}

	user, err := s.store.CreateUser(r.Context(), User{
		Name:  optionalText(body["name"]),
		Email: displayText(email),
		Role:  optionalText(body["role"]),
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("store user", zap.String("email", displayText(email)), zap.Error(err))
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: msgStoreFailed})
		return
	}

	logging.FromContext(r.Context()).Info("user created",
		zap.String("id", user.ID),
		zap.String("email", user.Email),
	)
	writeJSON(w, r, http.StatusCreated, createUserResponse{
		Message: fmt.Sprintf("User %s created successfully", user.Email),
		ID:      user.ID,
	})
}

// truthy reports whether a decoded JSON value counts as present: null, false,
// zero, "" and empty arrays or objects do not.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		return true
	}
}

// displayText renders a decoded JSON value for messages and storage.
// Strings are used verbatim, booleans as True/False, anything else as JSON.
func displayText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func optionalText(v interface{}) string {
	if v == nil {
		return ""
	}
	return displayText(v)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, ErrorResponse{Error: msgNotFound})
}
