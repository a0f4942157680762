package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pagewalk/driver"
	"github.com/sarchlab/pagewalk/memory"
	"github.com/sarchlab/pagewalk/tablegen"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a session with randomly mapped pages.",
	Long: `Gen builds 4-level page tables mapping randomly chosen virtual ` +
		`pages, and writes the resulting session description in the ` +
		`harness input format. Roughly half of the generated queries hit ` +
		`mapped pages and the rest fault.`,
	RunE: generateSession,
}

// tableBase is where the generated page tables live. Data frames are
// placed above the tables so the two ranges cannot collide.
const tableBase = uint64(0x100000)

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().Int("pages", 8, "number of virtual pages to map")
	genCmd.Flags().Int("queries", 16, "number of queries to generate")
	genCmd.Flags().Int64("seed", 1, "seed for the random generator")
	genCmd.Flags().StringP("output", "o", "",
		"output file, standard output if not given")
}

func generateSession(cmd *cobra.Command, _ []string) error {
	pages, _ := cmd.Flags().GetInt("pages")
	queries, _ := cmd.Flags().GetInt("queries")
	seed, _ := cmd.Flags().GetInt64("seed")

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	storage := memory.NewStorage()
	capacity := uint64(3*pages+1) * tablegen.PageSize
	alloc := tablegen.NewFrameAllocator(tableBase, capacity)
	builder := tablegen.NewTableBuilder(storage, alloc)

	rng := rand.New(rand.NewSource(seed))

	mapped, err := mapRandomPages(builder, rng, pages)
	if err != nil {
		return err
	}

	root, err := builder.RootTable()
	if err != nil {
		return err
	}

	return driver.WriteSession(
		out, storage, root, pickQueries(rng, mapped, queries))
}

func mapRandomPages(
	builder *tablegen.TableBuilder,
	rng *rand.Rand,
	pages int,
) ([]uint64, error) {
	frameBase := tableBase + uint64(3*pages+1)*tablegen.PageSize

	mapped := make([]uint64, 0, pages)
	seen := map[uint64]bool{}

	for i := 0; i < pages; i++ {
		vAddr := randomPage(rng)
		for seen[vAddr] {
			vAddr = randomPage(rng)
		}
		seen[vAddr] = true

		pAddr := frameBase + uint64(i)*tablegen.PageSize
		if err := builder.Map(vAddr, pAddr); err != nil {
			return nil, fmt.Errorf("mapping page %d: %w", i, err)
		}

		mapped = append(mapped, vAddr)
	}

	return mapped, nil
}

// randomPage returns a page-aligned address within the 48-bit canonical
// low half.
func randomPage(rng *rand.Rand) uint64 {
	return rng.Uint64() & (1<<48 - 1) &^ (tablegen.PageSize - 1)
}

func pickQueries(rng *rand.Rand, mapped []uint64, n int) []uint64 {
	queries := make([]uint64, 0, n)

	for i := 0; i < n; i++ {
		offset := rng.Uint64() % tablegen.PageSize

		if i%2 == 0 && len(mapped) > 0 {
			page := mapped[rng.Intn(len(mapped))]
			queries = append(queries, page|offset)
			continue
		}

		queries = append(queries, randomPage(rng)|offset)
	}

	return queries
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}

	return file, func() { file.Close() }, nil
}
