package directory

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/legisref/internal/model"
)

// yamlLegislator mirrors one entry of the congress-legislators YAML files
type yamlLegislator struct {
	ID struct {
		Bioguide string `yaml:"bioguide"`
	} `yaml:"id"`
	Name struct {
		First string `yaml:"first"`
		Last  string `yaml:"last"`
	} `yaml:"name"`
	Bio struct {
		Gender string `yaml:"gender"`
	} `yaml:"bio"`
	Terms []struct {
		Type  string `yaml:"type"`
		State string `yaml:"state"`
	} `yaml:"terms"`
}

// ParseYAML reads legislators in the congress-legislators format. Chamber
// and state come from the most recent term. Entries without a bioguide ID
// are skipped.
func ParseYAML(r io.Reader) ([]model.Legislator, error) {
	var entries []yamlLegislator
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if err == io.EOF {
			return []model.Legislator{}, nil
		}
		return nil, fmt.Errorf("failed to decode legislators: %w", err)
	}

	legislators := make([]model.Legislator, 0, len(entries))
	for _, e := range entries {
		if e.ID.Bioguide == "" {
			continue
		}

		l := model.Legislator{
			BioguideID: e.ID.Bioguide,
			FirstName:  e.Name.First,
			LastName:   e.Name.Last,
			Gender:     parseGender(e.Bio.Gender),
		}
		if len(e.Terms) > 0 {
			last := e.Terms[len(e.Terms)-1]
			l.Chamber = chamberForTerm(last.Type)
			l.State = strings.ToUpper(last.State)
		}

		legislators = append(legislators, l)
	}

	return legislators, nil
}

// LoadYAML reads a congress-legislators YAML file
func LoadYAML(path string) ([]model.Legislator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory file: %w", err)
	}
	defer f.Close()

	legislators, err := ParseYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return legislators, nil
}

func chamberForTerm(termType string) model.Chamber {
	switch strings.ToLower(termType) {
	case "rep":
		return model.ChamberHouse
	case "sen":
		return model.ChamberSenate
	default:
		return ""
	}
}

func parseGender(s string) model.Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return model.GenderMale
	case "F":
		return model.GenderFemale
	default:
		return model.GenderUnknown
	}
}
