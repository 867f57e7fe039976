package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local blob cache",
	Long:  `Add, list, export, or remove blobs in the upload and document namespaces.`,
}

var cachePutCmd = &cobra.Command{
	Use:   "put [file]",
	Short: "Add a local file to the upload namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runCachePut,
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached blobs",
	RunE:  runCacheLs,
}

var cacheGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Write a cached blob to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheGet,
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a cached blob",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheRm,
}

var (
	cacheNamespace string
	cacheOutput    string
)

func init() {
	cacheLsCmd.Flags().StringVarP(&cacheNamespace, "namespace", "n", "upload", "Namespace to list (upload or document)")
	cacheGetCmd.Flags().StringVarP(&cacheNamespace, "namespace", "n", "upload", "Namespace to read from (upload or document)")
	cacheGetCmd.Flags().StringVarP(&cacheOutput, "output", "o", "", "Output path (defaults to the blob's name)")
	cacheRmCmd.Flags().StringVarP(&cacheNamespace, "namespace", "n", "upload", "Namespace to remove from (upload or document)")

	cacheCmd.AddCommand(cachePutCmd)
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheGetCmd)
	cacheCmd.AddCommand(cacheRmCmd)
	rootCmd.AddCommand(cacheCmd)
}

// parseNamespace maps the --namespace flag to a domain namespace.
func parseNamespace(value string) (domain.Namespace, error) {
	switch value {
	case "upload":
		return domain.NamespaceUpload, nil
	case "document":
		return domain.NamespaceDocument, nil
	default:
		return "", fmt.Errorf("unknown namespace %q (expected upload or document)", value)
	}
}

func runCachePut(cmd *cobra.Command, args []string) error {
	if blobStore == nil {
		return errors.New("blob store not configured")
	}

	path := args[0]
	ctx := cmd.Context()

	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var lastModified time.Time
	if info, err := os.Stat(path); err == nil {
		lastModified = info.ModTime()
	}

	info, err := blobStore.Put(ctx, filepath.Base(path), "application/pdf", lastModified, payload)
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}

	cmd.Printf("Stored %s (%d bytes)\n", info.Name, info.SizeBytes)
	cmd.Printf("  ID: %s\n", info.ID)
	return nil
}

func runCacheLs(cmd *cobra.Command, _ []string) error {
	if blobStore == nil {
		return errors.New("blob store not configured")
	}

	ns, err := parseNamespace(cacheNamespace)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	infos, err := blobStore.List(ctx, ns)
	if err != nil {
		return fmt.Errorf("failed to list blobs: %w", err)
	}

	if len(infos) == 0 {
		cmd.Printf("No blobs in the %s namespace.\n", ns)
		return nil
	}

	cmd.Printf("Blobs in the %s namespace:\n\n", ns)
	for i := range infos {
		cmd.Printf("  %s\n", infos[i].ID)
		cmd.Printf("    Name:    %s\n", infos[i].Name)
		cmd.Printf("    Size:    %d bytes\n", infos[i].SizeBytes)
		cmd.Printf("    Created: %s\n", infos[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d blobs\n", len(infos))
	return nil
}

func runCacheGet(cmd *cobra.Command, args []string) error {
	if blobStore == nil {
		return errors.New("blob store not configured")
	}

	id := args[0]
	ns, err := parseNamespace(cacheNamespace)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var record *domain.BlobRecord
	switch ns {
	case domain.NamespaceUpload:
		record, err = blobStore.Get(ctx, id)
	case domain.NamespaceDocument:
		record, err = blobStore.GetDocumentBlob(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}
	if record == nil {
		return fmt.Errorf("no blob with id %s in the %s namespace", id, ns)
	}

	output := cacheOutput
	if output == "" {
		output = record.Name
	}

	if err := os.WriteFile(output, record.Payload, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	cmd.Printf("Wrote %s (%d bytes)\n", output, len(record.Payload))
	return nil
}

func runCacheRm(cmd *cobra.Command, args []string) error {
	if blobStore == nil {
		return errors.New("blob store not configured")
	}

	id := args[0]
	ns, err := parseNamespace(cacheNamespace)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch ns {
	case domain.NamespaceUpload:
		err = blobStore.Delete(ctx, id)
	case domain.NamespaceDocument:
		err = blobStore.DeleteDocumentBlob(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to remove blob: %w", err)
	}

	cmd.Printf("Removed %s from the %s namespace.\n", id, ns)
	return nil
}
