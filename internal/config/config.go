// config.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------

// Package config reads the YAML run description of gohf-casscf.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid run description")

// Config describes one run: the orbital partition per irrep, the integral
// source and the active-space states whose RDMs are averaged.
type Config struct {
	Occupied        []int   `yaml:"occupied"`
	Active          []int   `yaml:"active"`
	Virtual         []int   `yaml:"virtual"`
	ActiveElectrons int     `yaml:"active_electrons"`
	Workers         int     `yaml:"workers"`
	Integrals       string  `yaml:"integrals,omitempty"`
	Model           *Model  `yaml:"model,omitempty"`
	States          []State `yaml:"states"`
}

// Model is the built-in hydrogen chain integral source.
type Model struct {
	ChainLength int     `yaml:"chain_length"`
	Distance    float64 `yaml:"distance"`
	Basis       string  `yaml:"basis"`
}

// State is a single determinant in the active space. Occupations holds one
// character per active orbital: 0, a, b or 2.
type State struct {
	Weight      float64 `yaml:"weight"`
	Occupations string  `yaml:"occupations"`
}

// Default returns H2 in 6-31G at 1.4 bohr with both electrons in a
// two-orbital active space.
func Default() *Config {
	return &Config{
		Occupied:        []int{0},
		Active:          []int{2},
		Virtual:         []int{2},
		ActiveElectrons: 2,
		Model:           &Model{ChainLength: 2, Distance: 1.4, Basis: "6-31g"},
		States:          []State{{Weight: 1, Occupations: "20"}},
	}
}

// Load reads and validates a run description. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write config")
}

func negative(x int) bool { return x < 0 }

// Validate checks the partition, the integral source and the states.
func (c *Config) Validate() error {
	n := len(c.Occupied)
	if n == 0 || len(c.Active) != n || len(c.Virtual) != n {
		return errors.Wrapf(ErrInvalid, "occupied, active and virtual need one entry per irrep, got %d, %d, %d",
			len(c.Occupied), len(c.Active), len(c.Virtual))
	}
	if n > 8 {
		return errors.Wrapf(ErrInvalid, "%d irreps, at most 8 supported", n)
	}
	for _, counts := range [][]int{c.Occupied, c.Active, c.Virtual} {
		if slices.IndexFunc(counts, negative) >= 0 {
			return errors.Wrapf(ErrInvalid, "negative orbital count in %v", counts)
		}
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "workers = %d", c.Workers)
	}
	if c.ActiveElectrons <= 1 {
		return errors.Wrapf(ErrInvalid, "active_electrons = %d, need at least 2", c.ActiveElectrons)
	}

	switch {
	case c.Integrals != "" && c.Model != nil:
		return errors.Wrap(ErrInvalid, "integrals and model are mutually exclusive")
	case c.Integrals == "" && c.Model == nil:
		return errors.Wrap(ErrInvalid, "one of integrals or model is required")
	case c.Model != nil:
		if err := c.validateModel(); err != nil {
			return err
		}
	}

	nAct := c.NumActive()
	if nAct == 0 {
		return errors.Wrap(ErrInvalid, "empty active space")
	}
	if len(c.States) == 0 {
		return errors.Wrap(ErrInvalid, "at least one state is required")
	}
	for i, s := range c.States {
		if s.Weight <= 0 {
			return errors.Wrapf(ErrInvalid, "states[%d]: weight %g", i, s.Weight)
		}
		if len(s.Occupations) != nAct {
			return errors.Wrapf(ErrInvalid, "states[%d]: %d occupations for %d active orbitals", i, len(s.Occupations), nAct)
		}
		if k := strings.IndexFunc(s.Occupations, func(r rune) bool { return !strings.ContainsRune("0ab2", r) }); k >= 0 {
			return errors.Wrapf(ErrInvalid, "states[%d]: occupation %q at orbital %d", i, s.Occupations[k], k)
		}
		if ne := s.Electrons(); ne != c.ActiveElectrons {
			return errors.Wrapf(ErrInvalid, "states[%d]: %d electrons, active_electrons = %d", i, ne, c.ActiveElectrons)
		}
	}
	return nil
}

func (c *Config) validateModel() error {
	m := c.Model
	if m.ChainLength < 2 || m.ChainLength%2 != 0 {
		return errors.Wrapf(ErrInvalid, "model: chain_length = %d, need an even number of atoms", m.ChainLength)
	}
	if m.Distance <= 0 {
		return errors.Wrapf(ErrInvalid, "model: distance = %g", m.Distance)
	}
	if m.Basis == "" {
		return errors.Wrap(ErrInvalid, "model: basis is required")
	}
	if nElec := 2*sum(c.Occupied) + c.ActiveElectrons; nElec != m.ChainLength {
		return errors.Wrapf(ErrInvalid, "model: %d electrons in the partition, chain has %d", nElec, m.ChainLength)
	}
	return nil
}

// NumActive is the total number of active orbitals.
func (c *Config) NumActive() int { return sum(c.Active) }

// Weights returns the state weights normalized to one.
func (c *Config) Weights() []float64 {
	w := make([]float64, len(c.States))
	for i, s := range c.States {
		w[i] = s.Weight
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// Electrons counts the electrons of the determinant.
func (s State) Electrons() int {
	return 2*strings.Count(s.Occupations, "2") + strings.Count(s.Occupations, "a") + strings.Count(s.Occupations, "b")
}

// Spins returns the alpha and beta occupations of the determinant.
func (s State) Spins() (alpha, beta []bool) {
	alpha = make([]bool, len(s.Occupations))
	beta = make([]bool, len(s.Occupations))
	for i, r := range s.Occupations {
		alpha[i] = r == '2' || r == 'a'
		beta[i] = r == '2' || r == 'b'
	}
	return alpha, beta
}

func sum(x []int) int {
	res := 0
	for _, v := range x {
		res += v
	}
	return res
}
