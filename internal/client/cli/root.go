package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/dmitrijs2005/readkeeper/internal/client/services"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/spf13/cobra"
)

var errMirrorNotConfigured = errors.New("remote mirror is not configured, set s3_access_key in the config")

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "readkeeper",
		Short:         "Local-first reading companion with device sync",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(a.out)

	root.AddCommand(
		a.importCmd(),
		a.booksCmd(),
		a.readCmd(),
		a.vocabCmd(),
		a.highlightCmd(),
		a.translateCmd(),
		a.syncCmd(),
		a.pushCmd(),
	)
	return root
}

func (a *App) importCmd() *cobra.Command {
	var title, author string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Register a book file in the local library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				t, err := GetSimpleText(a.reader, "Book title?", a.out)
				if err != nil {
					return err
				}
				title = t
			}
			b, err := a.books.Import(cmd.Context(), args[0], title, author)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s)\n", b.Title, b.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "book title")
	cmd.Flags().StringVarP(&author, "author", "a", "", "book author")
	return cmd
}

func (a *App) booksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.books.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %3.0f%%  %s", b.ID, b.Progress*100, b.Title)
				if b.Author != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " - %s", b.Author)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func (a *App) readCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "read <book-id> <progress>",
		Short: "Record the reading position and push it to the mirror",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[1], err)
			}
			if err := a.books.UpdateProgress(cmd.Context(), args[0], progress, location); err != nil {
				return err
			}

			// progress changes are latency sensitive, push without a full
			// round trip; a busy or missing mirror is not a failure here
			if a.sync != nil {
				if err := a.sync.Push(cmd.Context()); err != nil && !errors.Is(err, common.ErrorSyncInProgress) {
					a.log.Warn(cmd.Context(), "fast push failed", "error", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "reading location marker")
	return cmd
}

func (a *App) vocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage the vocabulary of looked-up words",
	}

	var book string
	add := &cobra.Command{
		Use:   "add <word> [translation]",
		Short: "Record a word lookup",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			translation := ""
			if len(args) == 2 {
				translation = args[1]
			}
			e, err := a.vocabulary.Add(cmd.Context(), args[0], translation, book)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (seen %d times)\n", e.Word, e.Count)
			return nil
		},
	}
	add.Flags().StringVarP(&book, "book", "b", "", "book the word was seen in")

	del := &cobra.Command{
		Use:   "del <word>",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.vocabulary.Delete(cmd.Context(), args[0])
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List active words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.vocabulary.Active(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s", e.Word)
				if e.Translation != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " = %s", e.Translation)
				}
				fmt.Fprintf(cmd.OutOrStdout(), " (x%d)\n", e.Count)
			}
			return nil
		},
	}

	review := &cobra.Command{
		Use:   "review <word> <grade>",
		Short: "Record a recall attempt, grade 0..5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grade, err := strconv.Atoi(args[1])
			if err != nil || grade < 0 || grade > 5 {
				return fmt.Errorf("invalid grade %q, expected 0..5", args[1])
			}
			return a.vocabulary.Review(cmd.Context(), args[0], grade)
		},
	}

	cmd.AddCommand(add, del, list, review)
	return cmd
}

func (a *App) highlightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hl",
		Short: "Manage highlighted passages",
	}

	add := &cobra.Command{
		Use:   "add <book-id> [text]",
		Short: "Highlight a passage",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 2 {
				text = args[1]
			}
			if text == "" {
				t, err := GetSimpleText(a.reader, "Passage text?", a.out)
				if err != nil {
					return err
				}
				text = t
			}

			title := ""
			if b, err := a.books.Get(cmd.Context(), args[0]); err == nil {
				title = b.Title
			}

			_, err := a.highlights.Add(cmd.Context(), args[0], text, title, "")
			return err
		},
	}

	del := &cobra.Command{
		Use:   "del <book-id> <text>",
		Short: "Delete a highlight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.highlights.Delete(cmd.Context(), args[0], args[1])
		},
	}

	list := &cobra.Command{
		Use:   "list [book-id]",
		Short: "List active highlights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				hl, err := a.highlights.ByBook(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, h := range hl {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h.BookTitle, h.Text)
				}
				return nil
			}
			hl, err := a.highlights.Active(cmd.Context())
			if err != nil {
				return err
			}
			for _, h := range hl {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h.BookTitle, h.Text)
			}
			return nil
		},
	}

	cmd.AddCommand(add, del, list)
	return cmd
}

func (a *App) translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tr",
		Short: "Paragraph translation cache",
	}

	lookup := &cobra.Command{
		Use:   "lookup <book-id> <text>",
		Short: "Look up a cached paragraph translation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.translations.Lookup(cmd.Context(), args[0], args[1])
			if errors.Is(err, common.ErrorNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "not cached")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Translation)
			return nil
		},
	}

	save := &cobra.Command{
		Use:   "save <book-id> <text> <translation>",
		Short: "Cache a paragraph translation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.translations.Save(cmd.Context(), args[0], args[1], args[2])
		},
	}

	book := &cobra.Command{
		Use:   "book <book-id>",
		Short: "Batch-translate pasted paragraphs, Ctrl-C to stop between batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paragraphs, err := GetMultiline(a.reader, "Paste paragraphs, one per line", a.out)
			if err != nil {
				return err
			}
			if len(paragraphs) == 0 {
				return nil
			}

			cancel := &services.CancelFlag{}
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			defer signal.Stop(sigCh)
			go func() {
				<-sigCh
				cancel.Cancel()
			}()

			return a.translations.TranslateBook(cmd.Context(), args[0], paragraphs, cancel)
		},
	}

	cmd.AddCommand(lookup, save, book)
	return cmd
}

func (a *App) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run a full bidirectional sync with the mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.sync == nil {
				return errMirrorNotConfigured
			}
			if err := a.sync.Sync(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sync complete")
			return nil
		},
	}
}

func (a *App) pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local snapshot without merging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.sync == nil {
				return errMirrorNotConfigured
			}
			if err := a.sync.Push(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "push complete")
			return nil
		},
	}
}
