package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"vibesort"

	"github.com/spf13/cobra"
)

type sortOptions struct {
	InputFile string
	Criteria  string
	JSON      bool
	llm       llmFlags
}

func newSortCmd(root *Options) *cobra.Command {
	opts := &sortOptions{}
	cmd := &cobra.Command{
		Use:   "sort [items...]",
		Short: "Sort items with the configured model",
		Example: `  vibesort sort zebra apple banana
  vibesort sort --criteria "by length from shortest to longest" cat elephant dog
  printf 'red\nblue\n' | vibesort sort -F- --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, root, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.InputFile, "file", "F", "", "items file, one per line, use -F- for stdin")
	cmd.Flags().StringVarP(&opts.Criteria, "criteria", "c", vibesort.DefaultCriteria, "sort criteria inserted into the prompt")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the result as a JSON array")
	opts.llm.bind(cmd)
	return cmd
}

func runSort(cmd *cobra.Command, root *Options, opts *sortOptions, args []string) error {
	items, err := readItems(args, opts.InputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	sorter, err := opts.llm.newSorter(newLogger(cmd.ErrOrStderr(), root.Verbose))
	if err != nil {
		return err
	}
	sorted, err := sorter.SortBy(cmd.Context(), items, opts.Criteria)
	if err != nil {
		return err
	}
	return writeItems(cmd.OutOrStdout(), sorted, opts.JSON)
}

func readItems(args []string, inputFile string, stdin io.Reader) ([]string, error) {
	if inputFile != "" && len(args) > 0 {
		return nil, fmt.Errorf("item args and -F are mutually exclusive")
	}
	if inputFile == "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("missing input: provide items or -F")
		}
		return args, nil
	}
	if inputFile == "-" {
		items, err := scanLines(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return items, nil
	}
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()
	items, err := scanLines(f)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return items, nil
}

// scanLines returns the non-blank lines of r with surrounding whitespace trimmed.
func scanLines(r io.Reader) ([]string, error) {
	items := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items, scanner.Err()
}

func writeItems(w io.Writer, items []string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(items)
	}
	for _, item := range items {
		if _, err := fmt.Fprintln(w, item); err != nil {
			return err
		}
	}
	return nil
}
