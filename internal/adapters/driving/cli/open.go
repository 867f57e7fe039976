package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

var openCmd = &cobra.Command{
	Use:   "open [doc-id] [citation]",
	Short: "Open a document at a citation",
	Long: `Resolve a document's binary and open a viewer at the place the citation
points to. The optional citation argument is free text ("Page 12",
"p. 5", "Pages 3-5"); page and quote flags take precedence over it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runOpen,
}

var (
	openPage  int
	openQuote string
	openPrint bool
	openHere  bool
)

func init() {
	openCmd.Flags().IntVarP(&openPage, "page", "p", 0, "Target page number (1-indexed)")
	openCmd.Flags().StringVarP(&openQuote, "quote", "q", "", "Quoted text to highlight")
	openCmd.Flags().BoolVar(&openPrint, "print", false, "Print the viewer target URL instead of opening a context")
	openCmd.Flags().BoolVar(&openHere, "here", false, "Run the viewer in this terminal instead of a new context")

	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	if navigationService == nil {
		return errors.New("navigation service not configured")
	}

	docID := args[0]
	ctx := cmd.Context()

	citation := buildCitation(args)

	var target domain.ViewerTarget
	var err error
	if openPrint || openHere {
		target, err = navigationService.PrepareDocumentAtCitation(ctx, docID, citation)
	} else {
		target, err = navigationService.OpenDocumentAtCitation(ctx, docID, citation)
	}
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	if openPrint {
		cmd.Println(target.URL())
		return nil
	}
	if openHere {
		return runViewerAt(cmd, target)
	}

	if target.Page > 0 {
		cmd.Printf("Opened %s at page %d.\n", docID, target.Page)
	} else {
		cmd.Printf("Opened %s.\n", docID)
	}
	return nil
}

// buildCitation assembles the citation input from the positional argument
// and the page/quote flags. Flags win over the free-text argument.
func buildCitation(args []string) any {
	if openPage > 0 || openQuote != "" {
		citation := map[string]any{}
		if openPage > 0 {
			citation["page_number"] = openPage
		}
		if openQuote != "" {
			citation["quoted_text"] = openQuote
		}
		if len(args) > 1 {
			citation["label"] = args[1]
		}
		return citation
	}

	if len(args) > 1 {
		return args[1]
	}
	return nil
}
