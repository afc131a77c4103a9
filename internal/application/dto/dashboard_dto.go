package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityEntry um item do feed de atividade recente.
type ActivityEntry struct {
	Type    string    `json:"type"` // project, transaction
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// DashboardResponse indicadores do painel inicial.
type DashboardResponse struct {
	TotalClients    int             `json:"total_clients"`
	ActiveProjects  int             `json:"active_projects"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	LowStockItems   int             `json:"low_stock_items"`
	RecentActivity  []ActivityEntry `json:"recent_activity"`
}
