// AgentHub Mail Receiver Example
//
// This is a minimal stand-in for the HTTP mail API that AgentHub posts
// one-time login codes to. Point MAIL_API_URL at it during local
// development to see outgoing mail without a real provider.
//
// Usage:
//   export MAIL_API_KEY="dev-mail-key"
//   go run main.go
//
// Then start the API with:
//   export MAIL_API_URL="http://localhost:9000/send"
//   export MAIL_API_KEY="dev-mail-key"

package main

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

// MailRequest matches the payload AgentHub sends for each code.
type MailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func main() {
	apiKey := os.Getenv("MAIL_API_KEY")
	if apiKey == "" {
		log.Fatal("MAIL_API_KEY environment variable is required")
	}

	http.HandleFunc("/send", sendHandler(apiKey))
	http.HandleFunc("/health", healthHandler)

	log.Println("Starting mail receiver on :9000")
	log.Println("Endpoint: http://localhost:9000/send")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

func sendHandler(apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Check the bearer credential
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			log.Println("Rejected request with bad credential")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var mail MailRequest
		if err := json.NewDecoder(r.Body).Decode(&mail); err != nil {
			log.Printf("Error decoding body: %v", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		log.Printf("Mail accepted: to=%s subject=%q", mail.To, mail.Subject)
		log.Printf("  %s", mail.Text)

		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
