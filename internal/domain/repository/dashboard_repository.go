package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats indicadores agregados da página inicial.
type DashboardStats struct {
	TotalClients    int
	ActiveProjects  int             // aprovado ou em_producao
	MonthlyRevenue  decimal.Decimal // entradas do mês corrente
	PendingPayments decimal.Decimal // 50% do orçamento de projetos concluídos/entregues
	LowStockItems   int             // current_stock <= min_stock
}

// DashboardRepository consultas de leitura para o painel (agregações em SQL).
type DashboardRepository interface {
	Stats(ctx context.Context, now time.Time) (*DashboardStats, error)
}
