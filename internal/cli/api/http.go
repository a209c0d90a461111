package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"VoiceLedger/internal/cli/repo"
)

// doJSON выполняет JSON-запрос указанным методом. Непустой token
// передаётся как auth cookie.
func doJSON(method, url string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	respBody, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, respBody, nil
}

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as auth cookie.
func PostJSON(url string, payload any, token string) (*http.Response, []byte, error) {
	return doJSON(http.MethodPost, url, payload, token)
}

// GetJSON sends a GET request with the auth cookie.
func GetJSON(url string, token string) (*http.Response, []byte, error) {
	return doJSON(http.MethodGet, url, nil, token)
}

// DeleteJSON sends a DELETE request with a JSON body and the auth cookie.
func DeleteJSON(url string, payload any, token string) (*http.Response, []byte, error) {
	return doJSON(http.MethodDelete, url, payload, token)
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет его
// в переданное хранилище токена.
func PersistAuthFromResponse(resp *http.Response, tokens repo.TokenStore) error {
	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			return tokens.Save(c.Value)
		}
	}
	return fmt.Errorf("no auth cookie in response")
}
