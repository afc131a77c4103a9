package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de leitura para o painel inicial.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository constrói o adaptador do painel.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// Stats agrega os indicadores do painel numa única ida ao banco.
// Receita mensal soma as entradas do mês de `now`; pagamentos pendentes somam
// 50% do orçamento dos projetos concluídos ou entregues.
func (r *DashboardRepo) Stats(ctx context.Context, now time.Time) (*repository.DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	const query = `
	SELECT
	    (SELECT COUNT(*) FROM clients)                                               AS total_clients,
	    (SELECT COUNT(*) FROM projects
	        WHERE status IN ('aprovado', 'em_producao'))                             AS active_projects,
	    (SELECT COALESCE(SUM(amount), 0) FROM transactions
	        WHERE type = 'entrada' AND date >= $1 AND date < $2)                     AS monthly_revenue,
	    (SELECT COALESCE(SUM(budget * 0.5), 0) FROM projects
	        WHERE status IN ('concluido', 'entregue'))                               AS pending_payments,
	    (SELECT COUNT(*) FROM products
	        WHERE current_stock <= min_stock)                                        AS low_stock_items`

	var stats repository.DashboardStats
	err := r.pool.QueryRow(ctx, query, monthStart, monthEnd).Scan(
		&stats.TotalClients, &stats.ActiveProjects, &stats.MonthlyRevenue,
		&stats.PendingPayments, &stats.LowStockItems,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
