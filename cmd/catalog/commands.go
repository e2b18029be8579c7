package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"jo3qma.com/product_catalog/internal/domain/model"
	"jo3qma.com/product_catalog/internal/infrastructure/dummyjson"
	"jo3qma.com/product_catalog/internal/usecase"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		store.FetchCategories(cmd.Context())

		st := store.State()
		if st.LastError != "" {
			return errors.New(st.LastError)
		}
		return printCategories(cmd.OutOrStdout(), st.Categories)
	},
}

var (
	searchFlag   string
	categoryFlag string
	pagesFlag    int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, optionally filtered by category or search term",
	Long: `Fetches products page by page. When both --category and --search are
given, the API is queried by category and the search term is applied locally
to product titles.`,
	Example: `  catalog products --category smartphones --pages 2
  catalog products --search phone`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pagesFlag < 1 {
			return fmt.Errorf("--pages must be at least 1, got %d", pagesFlag)
		}
		st, filtered := browse(cmd, newStore())
		if st.LastError != "" {
			return errors.New(st.LastError)
		}
		return printProducts(cmd.OutOrStdout(), st, filtered)
	},
}

func init() {
	productsCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "search term matched against titles")
	productsCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category slug")
	productsCmd.Flags().IntVarP(&pagesFlag, "pages", "p", 1, "number of pages to load")
}

// browse はフラグに従ってフィルタを設定し、指定ページ数まで読み込みます
func browse(cmd *cobra.Command, store *usecase.CatalogStore) (model.QueryState, []model.Product) {
	ctx := cmd.Context()

	switch {
	case categoryFlag != "":
		// カテゴリを先に設定し、検索語の変更でもカテゴリのエンドポイントを使わせる
		store.SetCategory(ctx, categoryFlag)
		if searchFlag != "" {
			store.SetSearchQuery(ctx, searchFlag)
		}
	case searchFlag != "":
		store.SetSearchQuery(ctx, searchFlag)
	default:
		store.FetchProducts(ctx, true)
	}

	for i := 1; i < pagesFlag; i++ {
		before := store.State()
		if before.LastError != "" || !before.HasMore() {
			break
		}
		store.LoadMoreProducts(ctx)
	}
	return store.State(), store.FilteredProducts()
}

// header は見出しのセルを個別に装飾してタブで連結します
func header(cells ...string) string {
	styled := make([]string, len(cells))
	for i, c := range cells {
		styled[i] = headerStyle.Render(c)
	}
	return strings.Join(styled, "\t")
}

func printCategories(w io.Writer, categories []model.Category) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header("ID", "SLUG", "NAME"))
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Slug, c.Name)
	}
	return tw.Flush()
}

func printProducts(w io.Writer, st model.QueryState, products []model.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header("ID", "TITLE", "CATEGORY", "PRICE"))
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, dummyjson.PlainText(p.Title), p.Category, strconv.FormatFloat(p.Price, 'f', 2, 64))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nshowing %d of %d loaded (%d total, page %d)\n",
		len(products), len(st.Products), st.Total, st.Page)
	return err
}
