package mockbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/logging"
)

// maxBodySize is the maximum accepted request body size (64KB).
const maxBodySize = 64 * 1024

type bodyKey struct{}

// baseDate anchors canned dates so responses are stable.
var baseDate = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": "error", "message": message})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, ww.Status())
	})
}

// track counts the request, records it and applies any forced status.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := s.endpoint(r)

		var body map[string]any
		if r.Body != nil {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &body)
			}
		}

		query := make(map[string]string)
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				query[k] = v[0]
			}
		}

		s.mu.Lock()
		s.hits[path]++
		s.last[path] = Request{Method: r.Method, Header: r.Header.Clone(), Query: query, Body: body}
		forced := s.forced[path]
		s.mu.Unlock()

		if forced != 0 {
			writeError(w, forced, fmt.Sprintf("forced status %d", forced))
			return
		}

		ctx := context.WithValue(r.Context(), bodyKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth checks the identity headers against registered devices and requires uid
// and device_id in the body.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get("x-device-id")
		apiKey := r.Header.Get("x-api-key")
		if deviceID == "" || apiKey == "" {
			writeError(w, http.StatusUnauthorized, "missing device credentials")
			return
		}

		d, ok := s.Device(deviceID)
		if !ok || d.APIKey != apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		body := requestBody(r)
		if body == nil {
			writeError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}
		if str(body, "device_id") != deviceID || str(body, "uid") == "" {
			writeError(w, http.StatusBadRequest, "uid and device_id are required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestBody(r *http.Request) map[string]any {
	body, _ := r.Context().Value(bodyKey{}).(map[string]any)
	return body
}

func str(body map[string]any, key string) string {
	v, _ := body[key].(string)
	return v
}

func num(body map[string]any, key string, def int) int {
	if v, ok := body[key].(float64); ok {
		return int(v)
	}
	return def
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		deviceID = r.Header.Get("x-device-id")
	}
	if deviceID == "" {
		writeError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	s.mu.Lock()
	reject, message := s.reject, s.message
	s.mu.Unlock()

	if reject {
		writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": message})
		return
	}

	d := s.register(deviceID)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"api_key":          d.APIKey,
		"friendly_user_id": d.FriendlyUser,
		"uid":              d.UID,
	})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"location":    orDefault(str(body, "location"), "London"),
		"temperature": 18.5,
		"condition":   "Clouds",
		"description": "overcast clouds",
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	days := num(body, "days", 3)
	conditions := []string{"Clear", "Clouds", "Rain"}

	forecast := make([]map[string]any, 0, days)
	for i := 0; i < days; i++ {
		forecast = append(forecast, map[string]any{
			"date":      baseDate.AddDate(0, 0, i).Format("2006-01-02"),
			"min_temp":  10 + i,
			"max_temp":  18.5 + float64(i),
			"condition": conditions[i%len(conditions)],
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": orDefault(str(body, "location"), "London"),
		"forecast": forecast,
		"trend":    "warming",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	history := make([]map[string]any, 0, 3)
	for i := 3; i > 0; i-- {
		history = append(history, map[string]any{
			"date":      baseDate.AddDate(0, 0, -i).Format("2006-01-02"),
			"avg_temp":  12.0 + float64(i),
			"condition": "Clouds",
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": orDefault(str(body, "location"), "London"),
		"history":  history,
		"trend":    "cooling",
	})
}

func (s *Server) handleAstronomy(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"location":          orDefault(str(body, "location"), "London"),
		"sunrise":           "06:42 AM",
		"sunset":            "05:51 PM",
		"moonrise":          "09:10 AM",
		"moonset":           "11:58 PM",
		"moon_phase":        "Waxing Crescent",
		"moon_illumination": 17,
		"is_daytime":        true,
	})
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	resp := map[string]any{
		"symbol":         orDefault(str(body, "symbol"), "AAPL"),
		"price":          189.84,
		"change_percent": 1.25,
		"day_high":       190.32,
		"day_low":        187.6,
	}
	if s.endpoint(r) == "/stock/array" {
		resp["history"] = priceHistory(num(body, "days", 7), 185)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCrypto(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	resp := map[string]any{
		"symbol":         orDefault(str(body, "symbol"), "BTC"),
		"name":           "Bitcoin",
		"price":          64250.5,
		"change_percent": -0.8,
	}
	if s.endpoint(r) == "/crypto/array" {
		resp["history"] = priceHistory(num(body, "days", 7), 63000)
	}
	writeJSON(w, http.StatusOK, resp)
}

func priceHistory(days int, base float64) []map[string]any {
	out := make([]map[string]any, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, map[string]any{
			"date":  baseDate.AddDate(0, 0, i-days+1).Format("2006-01-02"),
			"price": base + float64(i),
		})
	}
	return out
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	category := orDefault(str(body, "category"), "general")
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"articles": []map[string]any{
			{"title": "Local library extends opening hours", "source": map[string]any{"name": "City Herald"}},
			{"title": "E-paper displays hit new refresh record", "source": map[string]any{"name": "Tech Daily"}},
		},
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"range": orDefault(str(body, "range"), "1d"),
		"events": []map[string]any{
			{"start": baseDate.Add(9 * time.Hour).Format(time.RFC3339), "summary": "Standup", "location": "Room 2"},
			{"start": baseDate.Add(14 * time.Hour).Format(time.RFC3339), "summary": "Dentist", "location": ""},
		},
	})
}

func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	origin, destination := str(body, "origin"), str(body, "destination")
	if origin == "" || destination == "" {
		writeError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"duration_traffic_text": "27 mins",
		"distance_text":         "14.2 km",
		"start_address":         origin,
		"end_address":           destination,
		"mode":                  orDefault(str(body, "mode"), "driving"),
	})
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	switch str(body, "type") {
	case "todo":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 4101, "name": "Essay draft", "due_at": "2025-03-05T23:59:00Z", "type": "assignment"},
			{"id": 4102, "name": "Quiz 3", "due_at": "2025-03-07T12:00:00Z", "type": "quiz"},
		})
	case "grades":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"course_name": "Biology", "grade": "A-", "score": 91.2},
			{"course_name": "History", "grade": "B+", "score": 88},
			{"course_name": "Calculus", "grade": "A", "score": 95},
		})
	default:
		writeError(w, http.StatusBadRequest, "type must be todo or grades")
	}
}

func (s *Server) handleSpotify(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	action := chi.URLParam(r, "action")

	switch action {
	case "request":
		writeJSON(w, http.StatusOK, map[string]any{
			"endpoint": str(body, "endpoint"),
			"method":   orDefault(str(body, "method"), "GET"),
			"result":   map[string]any{},
		})
	case "user_albums", "user_playlists", "liked_songs", "followed_artists":
		limit := num(body, "limit", 5)
		items := make([]map[string]any, 0, limit)
		for i := 0; i < limit; i++ {
			items = append(items, map[string]any{"name": fmt.Sprintf("%s %d", action, i+1)})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":  items,
			"limit":  limit,
			"offset": num(body, "offset", 0),
		})
	case "devices":
		writeJSON(w, http.StatusOK, map[string]any{
			"devices": []map[string]any{{"id": "spk-1", "name": "Kitchen", "is_active": true}},
		})
	case "playback":
		if str(body, "action") == "" {
			writeError(w, http.StatusBadRequest, "action is required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "action": str(body, "action")})
	default:
		writeError(w, http.StatusNotFound, "unknown spotify resource")
	}
}
