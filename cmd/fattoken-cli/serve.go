package main

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"fattoken/fat0"
	"fattoken/fat1"
	"fattoken/issuance"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a small HTTP endpoint for validating entries",
	Long: `serve starts a debug HTTP server with no state of its own: each
request carries a complete entry, gets validated against the fattoken
library, and the result is returned. Nothing is persisted and nothing
is submitted anywhere else.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")

		router := mux.NewRouter()
		router.HandleFunc("/validate/fat0", handleValidate(validateFAT0)).Methods("POST")
		router.HandleFunc("/validate/fat1", handleValidate(validateFAT1)).Methods("POST")
		router.HandleFunc("/validate/issuance", handleValidate(validateIssuance)).Methods("POST")

		log.Printf("listening on %s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Fatalf("serve: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8585", "address to listen on")
}

type entryRequest struct {
	ChainID string   `json:"chain_id"`
	ExtIDs  []string `json:"ext_ids"` // base64
	Content string   `json:"content"` // base64
}

type entryResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func handleValidate(validate func(entryRequest) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, entryResponse{Error: err.Error()})
			return
		}
		valid, err := validate(req)
		if err != nil {
			writeJSON(w, http.StatusOK, entryResponse{Valid: false, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, entryResponse{Valid: valid})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeEntry(req entryRequest) ([][]byte, []byte, error) {
	extIDs := make([][]byte, len(req.ExtIDs))
	for i, s := range req.ExtIDs {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, nil, err
		}
		extIDs[i] = b
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return nil, nil, err
	}
	return extIDs, content, nil
}

func validateFAT0(req entryRequest) (bool, error) {
	extIDs, content, err := decodeEntry(req)
	if err != nil {
		return false, err
	}
	tx, err := fat0.ParseTransaction(req.ChainID, extIDs, content)
	if err != nil {
		return false, err
	}
	return tx.ValidateSignatures(), nil
}

func validateFAT1(req entryRequest) (bool, error) {
	extIDs, content, err := decodeEntry(req)
	if err != nil {
		return false, err
	}
	tx, err := fat1.ParseTransaction(req.ChainID, extIDs, content)
	if err != nil {
		return false, err
	}
	return tx.ValidateSignatures(), nil
}

func validateIssuance(req entryRequest) (bool, error) {
	extIDs, content, err := decodeEntry(req)
	if err != nil {
		return false, err
	}
	iss, err := issuance.ParseEntry(req.ChainID, extIDs, content)
	if err != nil {
		return false, err
	}
	return iss.ValidateSignature(), nil
}
