package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, type, cpf, cnpj, razao_social, inscricao_estadual, isento_icms,
	email, phone, mobile, country, state, city, zip_code, neighborhood, street_type, street,
	number, complement, active, created_at, updated_at`

// ClientRepo implementação de ClientRepository sobre PostgreSQL.
// O endereço é achatado em colunas da própria tabela de clientes.
type ClientRepo struct {
	q Querier
}

// NewClientRepository constrói o adaptador de clientes. Passar pool ou tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste um novo cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, type, cpf, cnpj, razao_social, inscricao_estadual, isento_icms,
			email, phone, mobile, country, state, city, zip_code, neighborhood, street_type, street,
			number, complement, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Type, client.CPF, client.CNPJ,
		client.RazaoSocial, client.InscricaoEstadual, client.IsentoICMS,
		client.Email, client.Phone, client.Mobile,
		client.Address.Country, client.Address.State, client.Address.City,
		client.Address.ZipCode, client.Address.Neighborhood, client.Address.StreetType,
		client.Address.Street, client.Address.Number, client.Address.Complement,
		client.Active, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtém um cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByName resolve um cliente pelo nome exato (importação via CSV).
func (r *ClientRepo) GetByName(name string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, name))
}

// List lista clientes com paginação.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListAll devolve todos os clientes (exportação CSV).
func (r *ClientRepo) ListAll() ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Update regrava os campos do cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, type = $3, cpf = $4, cnpj = $5, razao_social = $6,
		    inscricao_estadual = $7, isento_icms = $8, email = $9, phone = $10,
		    mobile = $11, country = $12, state = $13, city = $14, zip_code = $15,
		    neighborhood = $16, street_type = $17, street = $18, number = $19,
		    complement = $20, active = $21, updated_at = $22
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Type, client.CPF, client.CNPJ,
		client.RazaoSocial, client.InscricaoEstadual, client.IsentoICMS,
		client.Email, client.Phone, client.Mobile,
		client.Address.Country, client.Address.State, client.Address.City,
		client.Address.ZipCode, client.Address.Neighborhood, client.Address.StreetType,
		client.Address.Street, client.Address.Number, client.Address.Complement,
		client.Active, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete remove o cliente.
func (r *ClientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientHasProjects
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// Stats estatísticas derivadas dos projetos do cliente.
func (r *ClientRepo) Stats(clientID string) (*entity.ClientStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(budget), 0)
		FROM projects WHERE client_id = $1`
	var stats entity.ClientStats
	err := r.q.QueryRow(context.Background(), query, clientID).Scan(
		&stats.TotalProjects, &stats.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("client stats: %w", err)
	}
	return &stats, nil
}

func (r *ClientRepo) scanOne(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &c.CPF, &c.CNPJ, &c.RazaoSocial,
		&c.InscricaoEstadual, &c.IsentoICMS, &c.Email, &c.Phone, &c.Mobile,
		&c.Address.Country, &c.Address.State, &c.Address.City, &c.Address.ZipCode,
		&c.Address.Neighborhood, &c.Address.StreetType, &c.Address.Street,
		&c.Address.Number, &c.Address.Complement, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepo) scanMany(rows pgx.Rows) ([]*entity.Client, error) {
	var clients []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Type, &c.CPF, &c.CNPJ, &c.RazaoSocial,
			&c.InscricaoEstadual, &c.IsentoICMS, &c.Email, &c.Phone, &c.Mobile,
			&c.Address.Country, &c.Address.State, &c.Address.City, &c.Address.ZipCode,
			&c.Address.Neighborhood, &c.Address.StreetType, &c.Address.Street,
			&c.Address.Number, &c.Address.Complement, &c.Active, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}
