package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("papel sem permissão para esta operação")
	ErrEmailAlreadyExists = errors.New("o email já está cadastrado")

	// ErrCircularReference indica que uma aresta de composição criaria um ciclo
	// (um produto passaria a ser, direta ou transitivamente, componente de si mesmo).
	ErrCircularReference = errors.New("referência circular entre produtos")

	// ErrProductReferenced impede excluir um produto que ainda é componente de outro.
	ErrProductReferenced = errors.New("produto é componente de outro produto")

	// ErrClientHasProjects impede excluir um cliente que ainda possui projetos.
	ErrClientHasProjects = errors.New("cliente possui projetos cadastrados")
)
