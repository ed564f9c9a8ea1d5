package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/finquest/finquest/internal/quiz"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

//go:embed seed.yaml
var seedYAML []byte

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "schema://finquest/catalog.schema.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

type document struct {
	Version    string         `yaml:"version"`
	Groups     []groupDoc     `yaml:"groups"`
	Challenges []challengeDoc `yaml:"challenges"`
	Articles   []articleDoc   `yaml:"articles"`
	Proposals  []proposalDoc  `yaml:"proposals"`
}

type groupDoc struct {
	ID              string    `yaml:"id"`
	Title           string    `yaml:"title"`
	UnlockThreshold int       `yaml:"unlock_threshold"`
	Units           []unitDoc `yaml:"units"`
}

type unitDoc struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Summary  string  `yaml:"summary"`
	XPReward int     `yaml:"xp_reward"`
	Badge    string  `yaml:"badge"`
	Quiz     quizDoc `yaml:"quiz"`
}

type quizDoc struct {
	Questions []questionDoc `yaml:"questions"`
}

type questionDoc struct {
	Prompt      string   `yaml:"prompt"`
	Options     []string `yaml:"options"`
	Correct     int      `yaml:"correct"`
	Explanation string   `yaml:"explanation"`
}

type challengeDoc struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	XPReward    int    `yaml:"xp_reward"`
}

type articleDoc struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Source string `yaml:"source"`
}

type proposalDoc struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Choices []string `yaml:"choices"`
}

// Default returns the embedded seed catalog.
func Default() (*Catalog, error) {
	return Parse(seedYAML)
}

// LoadFile reads and parses a catalog YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog, checks it against the JSON schema and the
// supported version, then builds the indexed Catalog.
func Parse(data []byte) (*Catalog, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if !semver.IsValid(doc.Version) {
		return nil, fmt.Errorf("catalog version %q is not a valid semantic version", doc.Version)
	}
	if major := semver.Major(doc.Version); major != SupportedMajor {
		return nil, fmt.Errorf("catalog version %s unsupported: need major %s", doc.Version, SupportedMajor)
	}

	return New(doc.Version, doc.groups(), doc.challenges(), doc.articles(), doc.proposals())
}

// validateSchema checks the raw YAML against the embedded JSON schema.
func validateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}

	// The validator expects JSON-decoded values, so round-trip through JSON.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert catalog to JSON: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return fmt.Errorf("parse catalog JSON: %w", err)
	}

	schema, err := catalogSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("catalog schema validation failed: %w", err)
	}
	return nil
}

// catalogSchema compiles the embedded schema once.
func catalogSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

func (d document) groups() []Group {
	groups := make([]Group, len(d.Groups))
	for i, gd := range d.Groups {
		units := make([]Unit, len(gd.Units))
		for j, ud := range gd.Units {
			questions := make([]quiz.Question, len(ud.Quiz.Questions))
			for k, qd := range ud.Quiz.Questions {
				questions[k] = quiz.Question{
					Prompt:       qd.Prompt,
					Options:      qd.Options,
					CorrectIndex: qd.Correct,
					Explanation:  qd.Explanation,
				}
			}
			units[j] = Unit{
				ID:       ud.ID,
				Title:    ud.Title,
				Summary:  ud.Summary,
				XPReward: ud.XPReward,
				Badge:    ud.Badge,
				Quiz:     quiz.Quiz{Questions: questions},
			}
		}
		groups[i] = Group{
			ID:              gd.ID,
			Title:           gd.Title,
			UnlockThreshold: gd.UnlockThreshold,
			Units:           units,
		}
	}
	return groups
}

func (d document) challenges() []Challenge {
	out := make([]Challenge, len(d.Challenges))
	for i, cd := range d.Challenges {
		out[i] = Challenge{ID: cd.ID, Title: cd.Title, Description: cd.Description, XPReward: cd.XPReward}
	}
	return out
}

func (d document) articles() []Article {
	out := make([]Article, len(d.Articles))
	for i, ad := range d.Articles {
		out[i] = Article{ID: ad.ID, Title: ad.Title, Source: ad.Source}
	}
	return out
}

func (d document) proposals() []Proposal {
	out := make([]Proposal, len(d.Proposals))
	for i, pd := range d.Proposals {
		out[i] = Proposal{ID: pd.ID, Title: pd.Title, Choices: pd.Choices}
	}
	return out
}
