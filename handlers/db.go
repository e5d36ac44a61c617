package handlers

import (
	"github.com/FTCService/JSJREWARD/database"
	"github.com/FTCService/JSJREWARD/services"
)

var (
	DB         *database.DB
	Ledger     *services.LedgerService
	AuthServer *services.AuthServerClient
	Notifier   services.Notifier
)

// InitializeHandlers wires the shared dependencies used by all handlers.
func InitializeHandlers(db *database.DB, ledger *services.LedgerService, authServer *services.AuthServerClient, notifier services.Notifier) {
	DB = db
	Ledger = ledger
	AuthServer = authServer
	Notifier = notifier
}
