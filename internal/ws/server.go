package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"autocare-report-services/internal/auth"
	"autocare-report-services/internal/config"
	"autocare-report-services/internal/reports"
	"autocare-report-services/internal/sources"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config) *Server {
	return &Server{DB: db, Logger: logger, Config: cfg}
}

// reportRequest is one filter change sent by the client. seq is a
// client-chosen monotonically increasing number; replies echo it.
type reportRequest struct {
	Seq       int64  `json:"seq"`
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	Partial   bool   `json:"partial"`
}

type reportStream struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	// Sequence number of the most recent request. Computations finishing for
	// an older sequence are discarded, never rendered.
	latestSeq atomic.Int64
}

// writeIfLatest writes value only if seq is still the most recent request.
// The re-check happens under the write lock, so a superseded computation that
// passed an earlier check can never slip its write in after a newer response.
func (c *reportStream) writeIfLatest(seq int64, value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.latestSeq.Load() != seq {
		return nil
	}
	return c.conn.WriteJSON(value)
}

func (c *reportStream) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

// ReportsWS is the live report channel. The client pushes filter changes and
// receives recomputed report payloads; responses for superseded requests are
// dropped so a slow computation can never overwrite a newer one.
func (s *Server) ReportsWS(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	centerID := ""
	if claims.Role != auth.RoleAdmin && claims.CenterID != nil {
		centerID = strings.TrimSpace(*claims.CenterID)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := &reportStream{conn: conn}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(s.Config.WSHeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		var req reportRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		client.latestSeq.Store(req.Seq)
		go s.computeAndSend(r.Context(), client, centerID, req)
	}
}

func (s *Server) authorize(r *http.Request) (*auth.Claims, error) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		token = auth.ParseBearerToken(r.Header.Get("Authorization"))
	}
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.Role != auth.RoleAdmin && !auth.ProviderRole(claims.Role) {
		return nil, errForbidden
	}
	return claims, nil
}

var errForbidden = &websocket.CloseError{Code: websocket.ClosePolicyViolation, Text: "forbidden"}

func (s *Server) computeAndSend(ctx context.Context, client *reportStream, centerID string, req reportRequest) {
	now := time.Now().UTC()

	filter := reports.Filter{}
	if req.Category != "" {
		parsed, ok := reports.ParseCategory(req.Category)
		if !ok {
			_ = client.writeIfLatest(req.Seq, map[string]any{"type": "error", "seq": req.Seq, "message": "unknown category"})
			return
		}
		filter.Category = parsed
	}
	if req.Status != "" {
		parsed, ok := reports.ParseStatusFilter(req.Status)
		if !ok {
			_ = client.writeIfLatest(req.Seq, map[string]any{"type": "error", "seq": req.Seq, "message": "unknown status"})
			return
		}
		filter.Status = parsed
	}

	start := parseWSDate(req.StartDate)
	end := parseWSDate(req.EndDate)

	result, err := sources.FetchServiceRecords(ctx, s.DB, centerID, req.Partial, now)
	if err != nil {
		s.Logger.Error("ws report fetch failed", zap.Error(err), zap.Int64("seq", req.Seq))
		_ = client.writeIfLatest(req.Seq, map[string]any{"type": "error", "seq": req.Seq, "message": "booking collections could not be read"})
		return
	}
	if client.latestSeq.Load() != req.Seq {
		return
	}

	filtered := filter.Apply(result.Records)
	window := reports.ResolveWindow(req.Period, now, start, end)
	report := reports.BuildReport(filtered, filtered, window, now)

	payload := map[string]any{
		"type": "report",
		"seq":  req.Seq,
		"data": map[string]any{
			"report":           report,
			"summaryFormatted": reports.FormatSummary(report.Summary),
		},
	}
	if len(result.Failed) > 0 {
		payload["failedSources"] = result.Failed
	}
	if err := client.writeIfLatest(req.Seq, payload); err != nil {
		_ = client.conn.Close()
	}
}

func parseWSDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}
