package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/jportela/marcenaria-api/internal/application/dto"
	"github.com/jportela/marcenaria-api/internal/domain"
	"github.com/jportela/marcenaria-api/internal/domain/entity"
	"github.com/jportela/marcenaria-api/internal/domain/repository"
)

// UseCase casos de uso CRUD para clientes. As estatísticas (total de projetos
// e valor) são derivadas por consulta, nunca armazenadas.
type UseCase struct {
	repo repository.ClientRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(repo repository.ClientRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create cria um cliente.
func (uc *UseCase) Create(in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Type == entity.ClientePF && in.CPF == "" && in.CNPJ != "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Type:              in.Type,
		CPF:               in.CPF,
		CNPJ:              in.CNPJ,
		RazaoSocial:       in.RazaoSocial,
		InscricaoEstadual: in.InscricaoEstadual,
		IsentoICMS:        in.IsentoICMS,
		Email:             in.Email,
		Phone:             in.Phone,
		Mobile:            in.Mobile,
		Address:           fromAddressDTO(in.Address),
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return uc.toResponse(client, &entity.ClientStats{}), nil
}

// GetByID devolve o cliente com estatísticas.
func (uc *UseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	stats, err := uc.repo.Stats(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(client, stats), nil
}

// List lista clientes com paginação (estatísticas por cliente incluídas).
func (uc *UseCase) List(limit, offset int) (*dto.ClientListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		stats, err := uc.repo.Stats(c.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *uc.toResponse(c, stats))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update atualização parcial de cliente.
func (uc *UseCase) Update(id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Type != nil {
		client.Type = *in.Type
	}
	if in.CPF != nil {
		client.CPF = *in.CPF
	}
	if in.CNPJ != nil {
		client.CNPJ = *in.CNPJ
	}
	if in.RazaoSocial != nil {
		client.RazaoSocial = *in.RazaoSocial
	}
	if in.InscricaoEstadual != nil {
		client.InscricaoEstadual = *in.InscricaoEstadual
	}
	if in.IsentoICMS != nil {
		client.IsentoICMS = *in.IsentoICMS
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Mobile != nil {
		client.Mobile = *in.Mobile
	}
	if in.Address != nil {
		client.Address = fromAddressDTO(*in.Address)
	}
	if in.Active != nil {
		client.Active = *in.Active
	}
	client.UpdatedAt = time.Now()

	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	stats, err := uc.repo.Stats(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(client, stats), nil
}

// Delete exclui um cliente. Recusado se o cliente ainda tem projetos
// (mesma postura da exclusão de produto referenciado).
func (uc *UseCase) Delete(id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	stats, err := uc.repo.Stats(id)
	if err != nil {
		return err
	}
	if stats.TotalProjects > 0 {
		return domain.ErrClientHasProjects
	}
	return uc.repo.Delete(id)
}

func fromAddressDTO(in dto.AddressDTO) entity.Address {
	return entity.Address{
		Country:      in.Country,
		State:        in.State,
		City:         in.City,
		ZipCode:      in.ZipCode,
		Neighborhood: in.Neighborhood,
		StreetType:   in.StreetType,
		Street:       in.Street,
		Number:       in.Number,
		Complement:   in.Complement,
	}
}

func (uc *UseCase) toResponse(c *entity.Client, stats *entity.ClientStats) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:                c.ID,
		Name:              c.Name,
		Type:              c.Type,
		CPF:               c.CPF,
		CNPJ:              c.CNPJ,
		RazaoSocial:       c.RazaoSocial,
		InscricaoEstadual: c.InscricaoEstadual,
		IsentoICMS:        c.IsentoICMS,
		Email:             c.Email,
		Phone:             c.Phone,
		Mobile:            c.Mobile,
		Address: dto.AddressDTO{
			Country:      c.Address.Country,
			State:        c.Address.State,
			City:         c.Address.City,
			ZipCode:      c.Address.ZipCode,
			Neighborhood: c.Address.Neighborhood,
			StreetType:   c.Address.StreetType,
			Street:       c.Address.Street,
			Number:       c.Address.Number,
			Complement:   c.Address.Complement,
		},
		Active:        c.Active,
		TotalProjects: stats.TotalProjects,
		TotalValue:    stats.TotalValue,
		CreatedAt:     c.CreatedAt,
	}
}
