package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressDTO endereço do cliente.
type AddressDTO struct {
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Neighborhood string `json:"neighborhood"`
	StreetType   string `json:"street_type"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
}

// CreateClientRequest entrada para criar um cliente.
type CreateClientRequest struct {
	Name              string     `json:"name" validate:"required,min=1,max=200"`
	Type              string     `json:"type" validate:"required,oneof=pf pj"`
	CPF               string     `json:"cpf"`
	CNPJ              string     `json:"cnpj"`
	RazaoSocial       string     `json:"razao_social"`
	InscricaoEstadual string     `json:"inscricao_estadual"`
	IsentoICMS        bool       `json:"isento_icms"`
	Email             string     `json:"email" validate:"omitempty,email"`
	Phone             string     `json:"phone"`
	Mobile            string     `json:"mobile"`
	Address           AddressDTO `json:"address"`
}

// UpdateClientRequest entrada para atualização parcial de cliente.
type UpdateClientRequest struct {
	Name              *string     `json:"name" validate:"omitempty,min=1,max=200"`
	Type              *string     `json:"type" validate:"omitempty,oneof=pf pj"`
	CPF               *string     `json:"cpf"`
	CNPJ              *string     `json:"cnpj"`
	RazaoSocial       *string     `json:"razao_social"`
	InscricaoEstadual *string     `json:"inscricao_estadual"`
	IsentoICMS        *bool       `json:"isento_icms"`
	Email             *string     `json:"email" validate:"omitempty,email"`
	Phone             *string     `json:"phone"`
	Mobile            *string     `json:"mobile"`
	Address           *AddressDTO `json:"address"`
	Active            *bool       `json:"active"`
}

// ClientResponse saída de um cliente, com estatísticas derivadas.
type ClientResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	CPF               string          `json:"cpf,omitempty"`
	CNPJ              string          `json:"cnpj,omitempty"`
	RazaoSocial       string          `json:"razao_social,omitempty"`
	InscricaoEstadual string          `json:"inscricao_estadual,omitempty"`
	IsentoICMS        bool            `json:"isento_icms"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Mobile            string          `json:"mobile"`
	Address           AddressDTO      `json:"address"`
	Active            bool            `json:"active"`
	TotalProjects     int             `json:"total_projects"`
	TotalValue        decimal.Decimal `json:"total_value"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
