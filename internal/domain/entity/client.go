package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cliente (pessoa física ou jurídica).
const (
	ClientePF = "pf"
	ClientePJ = "pj"
)

// Address endereço do cliente.
type Address struct {
	Country      string
	State        string
	City         string
	ZipCode      string
	Neighborhood string
	StreetType   string // Rua, Avenida...
	Street       string
	Number       string
	Complement   string
}

// Client representa um cliente da marcenaria.
type Client struct {
	ID                string
	Name              string
	Type              string // pf, pj
	CPF               string // quando pf
	CNPJ              string // quando pj
	RazaoSocial       string
	InscricaoEstadual string
	IsentoICMS        bool
	Email             string
	Phone             string
	Mobile            string
	Address           Address
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ClientStats estatísticas derivadas dos projetos do cliente (calculadas por consulta).
type ClientStats struct {
	TotalProjects int
	TotalValue    decimal.Decimal
}
