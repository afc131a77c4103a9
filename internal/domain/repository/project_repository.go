package repository

import "github.com/jportela/marcenaria-api/internal/domain/entity"

// ProjectRepository define a porta de persistência para Project e seus itens.
type ProjectRepository interface {
	// Create insere o projeto e os itens (mesmo Querier; atômico dentro de tx).
	Create(project *entity.Project) error
	// GetByID devolve o projeto com os itens carregados.
	GetByID(id string) (*entity.Project, error)
	List(limit, offset int) ([]*entity.Project, error)
	ListAll() ([]*entity.Project, error)
	// NextNumber devolve o próximo número sequencial de projeto.
	NextNumber() (int, error)
	// Update regrava os campos do projeto e substitui os itens por inteiro.
	Update(project *entity.Project) error
	Delete(id string) error
}
