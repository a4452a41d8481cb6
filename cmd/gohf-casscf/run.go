// run.go --  This file is part of goHF project.
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

package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"gohf/internal/blockmat"
	"gohf/internal/casscf"
	"gohf/internal/config"
	"gohf/internal/hamiltonian"
	"gohf/internal/orbitals"
)

func loadIntegrals(cfg *config.Config, log *zap.Logger, out io.Writer) (*hamiltonian.Hamiltonian, error) {
	if cfg.Integrals != "" {
		ham, err := hamiltonian.LoadYAMLFile(cfg.Integrals)
		if err != nil {
			return nil, err
		}
		log.Info("Integrals loaded", zap.String("path", cfg.Integrals), zap.Int("orbitals", ham.L()))
		return ham, nil
	}
	m := cfg.Model
	ham, rhf, err := hamiltonian.HydrogenChain(m.ChainLength, m.Distance, m.Basis, log)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "H%d chain, %s, R = %.4f bohr\n", m.ChainLength, m.Basis, m.Distance)
	fmt.Fprintf(out, "Nuclei Repulsion Energy: %.10f a.u.\n", rhf.Vnn)
	fmt.Fprintf(out, "RHF total energy:        %.10f a.u.\n", rhf.Energy)
	return ham, nil
}

// stateAveragedRDMs accumulates the weighted determinant 2-RDMs and takes
// the 1-RDM as their partial trace.
func stateAveragedRDMs(cfg *config.Config) (*casscf.OneRDM, *casscf.TwoRDM) {
	nAct := cfg.NumActive()
	rdm1 := casscf.NewOneRDM(nAct)
	rdm2 := casscf.NewTwoRDM(nAct)
	for i, w := range cfg.Weights() {
		_, state := casscf.DeterminantRDMs(cfg.States[i].Spins())
		state.Scale(w)
		casscf.Accumulate2RDM(state, rdm2)
	}
	casscf.Set1RDMFrom2RDM(cfg.ActiveElectrons, rdm2, rdm1)
	return rdm1, rdm2
}

func run(cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	tstart := time.Now()
	log := logger.With(zap.String("run", uuid.New().String()))
	log.Info("Starting goHF-CASSCF...")
	appInfo(out)

	ham, err := loadIntegrals(cfg, log, out)
	if err != nil {
		return err
	}
	idx, err := orbitals.New(cfg.Occupied, cfg.Active, cfg.Virtual)
	if err != nil {
		return err
	}
	engine, err := casscf.New(ham, idx, blockmat.NewIdentity(idx),
		casscf.WithWorkers(cfg.Workers), casscf.WithLogger(log))
	if err != nil {
		return err
	}
	printOutputDelimiter(out)
	fmt.Fprintln(out, idx)
	printOutputDelimiter(out)

	if err := engine.SetRDMs(stateAveragedRDMs(cfg)); err != nil {
		return err
	}
	energy, err := activeSpaceEnergy(engine)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Active-space energy:     %.10f a.u.\n", energy)

	noon, _, err := casscf.NaturalOrbitals(idx, engine.RDM1())
	if err != nil {
		return err
	}
	fmt.Fprint(out, "NOON:")
	for _, n := range noon {
		fmt.Fprintf(out, " %.6f", n)
	}
	fmt.Fprintln(out)
	printOutputDelimiter(out)

	if err := engine.Pseudocanonicalize(); err != nil {
		return errors.Wrap(err, "pseudocanonicalization")
	}
	energy, err = activeSpaceEnergy(engine)
	if err != nil {
		return err
	}
	fock := blockmat.Sum(engine.Tmatrix(), engine.QmatOCC(), engine.QmatACT())
	occOff, virtOff := largestOffDiagonal(fock, idx)
	fmt.Fprintf(out, "Pseudocanonical energy:  %.10f a.u.\n", energy)
	fmt.Fprintf(out, "Largest off-diagonal Fock element: occupied %.3e, virtual %.3e\n", occOff, virtOff)
	log.Info("Pseudocanonical orbitals",
		zap.Float64("energy", energy),
		zap.Float64("max occupied off-diagonal", occOff),
		zap.Float64("max virtual off-diagonal", virtOff))
	printOutputDelimiter(out)

	kmat := blockmat.NewMatrix(idx)
	engine.BuildKmatAndersson(kmat)
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		if block := fock.Block(irrep); block != nil {
			fmt.Fprintf(out, "Generalized Fock matrix, irrep %d:\n", irrep)
			PrintDense(out, block)
			fmt.Fprintf(out, "Andersson K matrix, irrep %d:\n", irrep)
			PrintDense(out, kmat.Block(irrep))
		}
	}
	printOutputDelimiter(out)

	log.Info("Exiting goHF-CASSCF...", zap.Duration("elapsed", time.Since(tstart)))
	fmt.Fprintln(out, "goHF-CASSCF done.")
	return nil
}

func activeSpaceEnergy(engine *casscf.Engine) (float64, error) {
	engine.BuildTmatrix()
	engine.BuildQmatOCC()
	engine.BuildQmatACT()
	active, err := engine.NewActiveHamiltonian()
	if err != nil {
		return 0, err
	}
	if err := engine.FillConstAndOneElectron(active); err != nil {
		return 0, err
	}
	if err := engine.FillActiveIntegrals(active); err != nil {
		return 0, err
	}
	return casscf.ActiveSpaceEnergy(active, engine.RDM1(), engine.RDM2())
}

func largestOffDiagonal(fock *blockmat.Matrix, idx *orbitals.Indices) (occ, virt float64) {
	offDiagonal := func(irrep, start, size int) float64 {
		res := 0.0
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				if i != j {
					res = math.Max(res, math.Abs(fock.At(irrep, start+i, start+j)))
				}
			}
		}
		return res
	}
	for irrep := 0; irrep < idx.NIrreps(); irrep++ {
		occ = math.Max(occ, offDiagonal(irrep, 0, idx.NOcc(irrep)))
		virt = math.Max(virt, offDiagonal(irrep, idx.NOcc(irrep)+idx.NAct(irrep), idx.NVirt(irrep)))
	}
	return occ, virt
}

func PrintDense(out io.Writer, D *mat.Dense) {
	fa := mat.Formatted(D, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(out, "    %.8f\n", fa)
}
