package main

import (
	"encoding/json"
	"fmt"
	"time"

	"zsports/sports-history/internal/storage"

	"github.com/spf13/cobra"
)

func newStorageCmd(a *app) *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Hetzner object storage",
	}
	cmd.PersistentFlags().StringVar(&bucket, "bucket", "", "bucket, defaults to hetzner.bucket_name")

	var object string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			key, err := fs.UploadFile(cmd.Context(), args[0], bucket, object)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	upload.Flags().StringVar(&object, "object", "", "object name, defaults to the file name")

	var out string
	download := &cobra.Command{
		Use:   "download <object>",
		Short: "Download an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			path, err := fs.DownloadFile(cmd.Context(), args[0], bucket, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	download.Flags().StringVar(&out, "out", "", "local path, defaults to paths.data_root/<object>")

	rm := &cobra.Command{
		Use:   "rm <object>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			return fs.DeleteObject(cmd.Context(), args[0], bucket)
		},
	}

	var expires time.Duration
	url := &cobra.Command{
		Use:   "url <object>",
		Short: "Presign a download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			u, err := fs.GeneratePresignedDownloadURL(cmd.Context(), args[0], bucket, expires)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	url.Flags().DurationVar(&expires, "expires", storage.DefaultPresignedURLExpiry, "URL lifetime")

	cmd.AddCommand(upload, download, rm, url, newCorsCmd(a, &bucket))
	return cmd
}

func newCorsCmd(a *app, bucket *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cors",
		Short: "Bucket CORS policy",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the CORS rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			rules, err := fs.GetCORS(cmd.Context(), *bucket)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rules)
		},
	}

	rule := defaultCORSRule()
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the CORS policy with one rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			return fs.SetCORS(cmd.Context(), rule, *bucket)
		},
	}
	set.Flags().StringSliceVar(&rule.AllowedOrigins, "origin", rule.AllowedOrigins, "allowed origins")
	set.Flags().StringSliceVar(&rule.AllowedMethods, "method", rule.AllowedMethods, "allowed methods")
	set.Flags().StringSliceVar(&rule.AllowedHeaders, "header", rule.AllowedHeaders, "allowed headers")

	cmd.AddCommand(get, set)
	return cmd
}

func defaultCORSRule() storage.CORSRule {
	return storage.CORSRule{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD"},
		AllowedHeaders: []string{"*"},
	}
}
