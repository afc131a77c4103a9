package dto

// ImportResult resumo de uma importação via CSV. Linhas rejeitadas não abortam
// o restante do arquivo; cada rejeição vira uma entrada em Errors.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
