// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package litellmtest provides an in-memory fake of the LiteLLM management
// API for tests. It implements the team, key and model routes the client
// uses, keeps records as plain JSON objects, and records every call so tests
// can assert that check mode never writes.
package litellmtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// MasterKey is the bearer token the fake accepts.
const MasterKey = "sk-master-test"

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server is an httptest-backed fake LiteLLM proxy.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	seq      int
	teams    map[string]map[string]any
	keys     map[string]map[string]any
	models   map[string]map[string]any
	calls    []Call
	failures map[string][]int
}

// New starts a fake proxy and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		teams:    make(map[string]map[string]any),
		keys:     make(map[string]map[string]any),
		models:   make(map[string]map[string]any),
		failures: make(map[string][]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Fail makes the next requests to path answer with the given status codes,
// one per request, before normal handling resumes.
func (s *Server) Fail(path string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], statuses...)
}

// Calls returns a copy of every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Writes returns the POST requests received so far.
func (s *Server) Writes() []Call {
	var writes []Call
	for _, c := range s.Calls() {
		if c.Method == http.MethodPost {
			writes = append(writes, c)
		}
	}
	return writes
}

// CountCalls returns how many requests hit method and path.
func (s *Server) CountCalls(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// AddTeam seeds a team and returns its ID. A missing team_id is generated.
func (s *Server) AddTeam(team map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := team["team_id"].(string)
	if id == "" {
		id = s.nextID("team")
	}
	team = clone(team)
	team["team_id"] = id
	s.teams[id] = team
	return id
}

// Team returns a copy of the stored team, or nil.
func (s *Server) Team(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.teams[id])
}

// Teams returns copies of all stored teams ordered by ID.
func (s *Server) Teams() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.teams, "team_id")
}

// AddKey seeds a virtual key and returns its token.
func (s *Server) AddKey(key map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, _ := key["token"].(string)
	if token == "" {
		token = s.nextID("tok")
	}
	key = clone(key)
	key["token"] = token
	s.keys[token] = key
	return token
}

// Key returns a copy of the stored key, or nil.
func (s *Server) Key(token string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.keys[token])
}

// Keys returns copies of all stored keys ordered by token.
func (s *Server) Keys() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.keys, "token")
}

// AddModel seeds a database deployment and returns its model id.
func (s *Server) AddModel(name string, params, info map[string]any) string {
	return s.addModel(name, params, info, true)
}

// AddConfigModel seeds a deployment that comes from the proxy config file.
func (s *Server) AddConfigModel(name string, params map[string]any) string {
	return s.addModel(name, params, nil, false)
}

func (s *Server) addModel(name string, params, info map[string]any, db bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("model")
	info = clone(info)
	if info == nil {
		info = map[string]any{}
	}
	info["id"] = id
	info["db_model"] = db
	s.models[id] = map[string]any{
		"model_name":     name,
		"litellm_params": clone(params),
		"model_info":     info,
	}
	return id
}

// Model returns a copy of the stored deployment, or nil.
func (s *Server) Model(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.models[id])
}

// Models returns copies of all stored deployments ordered by id.
func (s *Server) Models() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.models))
	ids := make([]string, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, clone(s.models[id]))
	}
	return out
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "invalid JSON body"}})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})

	if r.Header.Get("Authorization") != "Bearer "+MasterKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"message": "Authentication Error, invalid proxy server token passed"}})
		return
	}

	if queue := s.failures[r.URL.Path]; len(queue) > 0 {
		s.failures[r.URL.Path] = queue[1:]
		writeJSON(w, queue[0], map[string]any{"detail": fmt.Sprintf("injected failure %d", queue[0])})
		return
	}

	route := r.Method + " " + r.URL.Path
	switch route {
	case "GET /team/info":
		s.teamInfo(w, r.URL.Query().Get("team_id"))
	case "GET /team/list":
		writeJSON(w, http.StatusOK, sortedValues(s.teams, "team_id"))
	case "POST /team/new":
		s.teamNew(w, body)
	case "POST /team/update":
		s.teamUpdate(w, body)
	case "POST /team/delete":
		s.teamDelete(w, body)
	case "GET /key/info":
		s.keyInfo(w, r.URL.Query().Get("key"))
	case "GET /key/list":
		s.keyList(w, r.URL.Query().Get("return_full_object") == "true")
	case "POST /key/generate":
		s.keyGenerate(w, body)
	case "POST /key/update":
		s.keyUpdate(w, body)
	case "POST /key/delete":
		s.keyDelete(w, body)
	case "GET /model/info":
		s.modelInfo(w)
	case "POST /model/new":
		s.modelNew(w, body)
	case "POST /model/update":
		s.modelUpdate(w, body)
	case "POST /model/delete":
		s.modelDelete(w, body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not Found"})
	}
}

func (s *Server) teamInfo(w http.ResponseWriter, id string) {
	team, ok := s.teams[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": map[string]any{"error": "Team not found, passed team_id=" + id}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team_id": id, "team_info": team, "keys": []any{}})
}

func (s *Server) teamNew(w http.ResponseWriter, body map[string]any) {
	id, _ := body["team_id"].(string)
	if id == "" {
		id = s.nextID("team")
	}
	if _, exists := s.teams[id]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "Team id = " + id + " already exists. Please use a different team id."}})
		return
	}
	team := clone(body)
	team["team_id"] = id
	if _, ok := team["models"]; !ok {
		team["models"] = []any{}
	}
	s.teams[id] = team
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) teamUpdate(w http.ResponseWriter, body map[string]any) {
	id, _ := body["team_id"].(string)
	team, ok := s.teams[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "team not found"})
		return
	}
	for k, v := range body {
		team[k] = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"team_id": id, "data": team})
}

func (s *Server) teamDelete(w http.ResponseWriter, body map[string]any) {
	ids := stringList(body["team_ids"])
	for _, id := range ids {
		if _, ok := s.teams[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "team not found: " + id})
			return
		}
	}
	for _, id := range ids {
		delete(s.teams, id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted_teams": ids})
}

// findKey resolves a token or a secret key to the stored token.
func (s *Server) findKey(id string) (string, bool) {
	if _, ok := s.keys[id]; ok {
		return id, true
	}
	for token, key := range s.keys {
		if key["key"] == id {
			return token, true
		}
	}
	return "", false
}

// publicKey strips the secret from a stored key.
func publicKey(key map[string]any) map[string]any {
	out := clone(key)
	delete(out, "key")
	return out
}

func (s *Server) keyInfo(w http.ResponseWriter, id string) {
	token, ok := s.findKey(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "key not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": id, "info": publicKey(s.keys[token])})
}

func (s *Server) keyList(w http.ResponseWriter, full bool) {
	var entries []any
	for _, key := range sortedValues(s.keys, "token") {
		if full {
			entries = append(entries, publicKey(key))
		} else {
			entries = append(entries, key["token"])
		}
	}
	if entries == nil {
		entries = []any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": entries, "total_count": len(entries)})
}

func (s *Server) keyGenerate(w http.ResponseWriter, body map[string]any) {
	token := s.nextID("tok")
	key := clone(body)
	key["token"] = token
	key["key"] = "sk-" + token
	if alias, ok := key["key_alias"].(string); ok {
		key["key_name"] = "sk-..." + alias
	}
	s.keys[token] = key
	writeJSON(w, http.StatusOK, clone(key))
}

func (s *Server) keyUpdate(w http.ResponseWriter, body map[string]any) {
	id, _ := body["key"].(string)
	token, ok := s.findKey(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "key not found"})
		return
	}
	key := s.keys[token]
	for k, v := range body {
		if k == "key" {
			continue
		}
		key[k] = v
	}
	writeJSON(w, http.StatusOK, publicKey(key))
}

func (s *Server) keyDelete(w http.ResponseWriter, body map[string]any) {
	ids := stringList(body["keys"])
	var tokens []string
	for _, id := range ids {
		token, ok := s.findKey(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "key not found: " + id})
			return
		}
		tokens = append(tokens, token)
	}
	for _, token := range tokens {
		delete(s.keys, token)
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted_keys": ids})
}

// maskedModel hides credentials the way the proxy does in /model/info.
func maskedModel(m map[string]any) map[string]any {
	out := clone(m)
	if params, ok := out["litellm_params"].(map[string]any); ok {
		for k, v := range params {
			if s, ok := v.(string); ok && k == "api_key" && s != "" {
				params[k] = "sk-****" + s[max(0, len(s)-2):]
			}
		}
	}
	return out
}

func (s *Server) modelInfo(w http.ResponseWriter) {
	ids := make([]string, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data := make([]any, 0, len(ids))
	for _, id := range ids {
		data = append(data, maskedModel(s.models[id]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) modelNew(w http.ResponseWriter, body map[string]any) {
	name, _ := body["model_name"].(string)
	params, _ := body["litellm_params"].(map[string]any)
	if name == "" || params == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "model_name and litellm_params are required"}})
		return
	}
	id := s.nextID("model")
	info, _ := body["model_info"].(map[string]any)
	info = clone(info)
	if info == nil {
		info = map[string]any{}
	}
	info["id"] = id
	info["db_model"] = true
	model := map[string]any{"model_name": name, "litellm_params": clone(params), "model_info": info}
	s.models[id] = model
	writeJSON(w, http.StatusOK, maskedModel(model))
}

func (s *Server) modelUpdate(w http.ResponseWriter, body map[string]any) {
	info, _ := body["model_info"].(map[string]any)
	id, _ := info["id"].(string)
	model, ok := s.models[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "model not found: " + id})
		return
	}
	if name, ok := body["model_name"].(string); ok && name != "" {
		model["model_name"] = name
	}
	if params, ok := body["litellm_params"].(map[string]any); ok {
		stored, _ := model["litellm_params"].(map[string]any)
		if stored == nil {
			stored = map[string]any{}
		}
		for k, v := range params {
			stored[k] = v
		}
		model["litellm_params"] = stored
	}
	storedInfo, _ := model["model_info"].(map[string]any)
	for k, v := range info {
		storedInfo[k] = v
	}
	writeJSON(w, http.StatusOK, maskedModel(model))
}

func (s *Server) modelDelete(w http.ResponseWriter, body map[string]any) {
	id, _ := body["id"].(string)
	if _, ok := s.models[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "model not found: " + id})
		return
	}
	delete(s.models, id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Model deleted successfully: " + id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sortedValues(m map[string]map[string]any, idField string) []map[string]any {
	out := make([]map[string]any, 0, len(m))
	for _, v := range m {
		out = append(out, clone(v))
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i][idField].(string)
		b, _ := out[j][idField].(string)
		return strings.Compare(a, b) < 0
	})
	return out
}

// clone deep-copies a JSON object through a marshal round trip.
func clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}
