package handlers

import (
	"autocare-report-services/internal/config"
	"autocare-report-services/internal/queue"
	"autocare-report-services/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
	Queue  *queue.Client
	Store  *storage.ObjectStore
}
