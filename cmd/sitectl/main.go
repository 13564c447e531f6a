// Command sitectl checks site content files and prints the sitemap.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastfixai/tenantsite/internal/content"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sitectl",
		Short:        "Site content tooling",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("dir", "content", "directory holding the content JSON files")
	root.AddCommand(validateCmd(), sitemapCmd())
	return root
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the content files and report problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := loadSite(cmd)
			if err != nil {
				return err
			}
			issues := site.Issues()
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d content issue(s)", len(issues))
			}
			fmt.Fprintf(out, "ok: %d services, %d areas, %d faqs, %d projects\n",
				len(site.Services()), len(site.Areas()), len(site.FAQs()), len(site.Projects()))
			return nil
		},
	}
}

func sitemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Print one absolute URL per public page",
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := loadSite(cmd)
			if err != nil {
				return err
			}
			base, _ := cmd.Flags().GetString("base-url")
			if base == "" {
				base = site.Business().SEO.SiteURL
			}
			if base == "" {
				return fmt.Errorf("--base-url is required when business.json has no seo.siteUrl")
			}
			for _, u := range site.Sitemap(base) {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
	cmd.Flags().String("base-url", "", "site origin, e.g. https://example.com")
	return cmd
}

func loadSite(cmd *cobra.Command) (*content.Site, error) {
	dir, _ := cmd.Flags().GetString("dir")
	site, err := content.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load content from %s: %w", dir, err)
	}
	return site, nil
}
