package assets

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrModelNotFound indica que nenhum padrão do catálogo casou com o nome.
var ErrModelNotFound = errors.New("modelo de entidade não encontrado")

// --- Estruturas YAML ---

// Cube é um paralelepípedo de um osso, em unidades de 1/16 de bloco.
type Cube struct {
	Origin  [3]float32 `yaml:"origin"`
	Size    [3]float32 `yaml:"size"`
	UV      [2]int     `yaml:"uv"`
	Inflate float32    `yaml:"inflate,omitempty"`
	Mirror  bool       `yaml:"mirror,omitempty"`
}

// Bone é um nó articulado do modelo.
type Bone struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent,omitempty"`
	Pivot    [3]float32 `yaml:"pivot"`
	Rotation [3]float32 `yaml:"rotation,omitempty"` // Graus
	Texture  string     `yaml:"texture,omitempty"`  // Slot de textura; vazio = principal
	Cubes    []Cube     `yaml:"cubes,omitempty"`
}

// EntityModel define a geometria de uma entidade conhecida.
type EntityModel struct {
	Tokens        []string `yaml:"tokens"`
	Texture       string   `yaml:"texture"`
	TextureWidth  int      `yaml:"texture_width"`
	TextureHeight int      `yaml:"texture_height"`
	Bones         []Bone   `yaml:"bones"`
	Comment       string   `yaml:"comment,omitempty"`
}

// CatalogFile é o root do entity_models.yaml
type CatalogFile struct {
	Models []EntityModel `yaml:"models"`
}

// --- Catalog ---

// Catalog responde às consultas de modelo do sincronizador de entidades.
type Catalog struct {
	models []EntityModel
}

// NewCatalog cria um catálogo a partir de modelos já carregados.
func NewCatalog(models []EntityModel) *Catalog {
	return &Catalog{models: models}
}

// LoadCatalog carrega o catálogo de um arquivo YAML.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler catálogo de entidades: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog interpreta o conteúdo YAML de um catálogo.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("falha ao parsear catálogo de entidades: %w", err)
	}
	for i, m := range file.Models {
		if len(m.Tokens) == 0 {
			return nil, fmt.Errorf("modelo %d sem tokens", i)
		}
		if m.TextureWidth <= 0 {
			file.Models[i].TextureWidth = 64
		}
		if m.TextureHeight <= 0 {
			file.Models[i].TextureHeight = 64
		}
	}
	return NewCatalog(file.Models), nil
}

// --- Nomes ---

var folder = cases.Lower(language.Und)

// NormalizeName converte o nome de uma entidade para a forma canônica:
// nomes em CamelCase viram snake_case e tudo é convertido para minúsculas.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	first := []rune(name)[0]
	if unicode.IsUpper(first) {
		name = snakeCase(name)
	}
	return folder.String(name)
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
		case unicode.IsUpper(r) && i > 0 && runes[i-1] != '_' && runes[i-1] != ' ' &&
			(unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// qualify adiciona o namespace padrão quando ausente.
func qualify(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return "minecraft:" + name
}

// --- Wildcard Matching ---

// matchToken compara um token de consulta contra um padrão com suporte a wildcards (*)
// Formato do token: "NAMESPACE:NOME"
// O wildcard '*' em qualquer segmento aceita qualquer valor
func matchToken(pattern, query string) bool {
	if pattern == "*" {
		return true
	}

	patParts := strings.Split(pattern, ":")
	queryParts := strings.Split(query, ":")
	if len(patParts) != len(queryParts) {
		return false
	}

	for i := range patParts {
		if patParts[i] == "*" {
			continue
		}
		if patParts[i] != queryParts[i] {
			return false
		}
	}
	return true
}

// specificityScore conta os segmentos que NÃO são wildcard.
func specificityScore(pattern string) int {
	if pattern == "*" {
		return 0
	}
	score := 0
	for _, p := range strings.Split(pattern, ":") {
		if p != "*" {
			score++
		}
	}
	return score
}

// --- Consultas Públicas ---

// ResolveModel retorna o modelo mais específico para o nome da entidade.
func (c *Catalog) ResolveModel(name string) (*EntityModel, error) {
	query := qualify(NormalizeName(name))

	var best *EntityModel
	bestScore := -1
	for i := range c.models {
		entry := &c.models[i]
		for _, pat := range entry.Tokens {
			if matchToken(pat, query) {
				if score := specificityScore(pat); score > bestScore {
					bestScore = score
					best = entry
				}
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", query, ErrModelNotFound)
	}
	return best, nil
}

// Len retorna o número de modelos carregados.
func (c *Catalog) Len() int {
	return len(c.models)
}
