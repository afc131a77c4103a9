package repository

import "github.com/jportela/marcenaria-api/internal/domain/entity"

// ClientRepository define a porta de persistência para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// GetByName resolve um cliente pelo nome exato (importação de projetos via CSV).
	GetByName(name string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
	ListAll() ([]*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
	// Stats estatísticas derivadas dos projetos do cliente (calculadas por consulta,
	// não armazenadas).
	Stats(clientID string) (*entity.ClientStats, error)
}
