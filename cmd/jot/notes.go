package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jotdown/jot/internal/session"
	"github.com/jotdown/jot/internal/ui"
)

var (
	listQuery     string
	listSort      string
	listShowEmpty bool

	createTitle   string
	createContent string

	editTitle   string
	editContent string

	deleteYes bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `List notes from the collection.

The view is a pure projection: filtered by a case-insensitive substring
query over title and content, sorted by last update (default), creation
time, or title.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		if err := a.session.Load(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading notes: %v\n", err)
			os.Exit(1)
		}

		a.session.SetQuery(listQuery)
		a.session.SetSort(session.SortMode(listSort))
		if listShowEmpty {
			a.session.SetFilter(false)
		}

		notes := a.session.View()
		if len(notes) == 0 {
			fmt.Println(ui.RenderDim("No notes."))
			return
		}

		selected := a.session.SelectedID()
		for _, n := range notes {
			marker := " "
			if n.ID == selected {
				marker = ui.RenderAccent(">")
			}
			updated := time.UnixMilli(n.UpdatedAt).Format("2006-01-02 15:04")
			fmt.Printf("%s %s  %s  %s\n",
				marker,
				ui.RenderDim(n.ID),
				ui.RenderTitle(n.DisplayTitle()),
				ui.RenderDim(updated))
		}
		fmt.Printf("\n%s\n", ui.RenderDim(fmt.Sprintf("%d notes · %s", len(notes), a.session.StatusLabel())))
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		n, err := a.client.Get(context.Background(), args[0])
		if err != nil || n == nil {
			fmt.Fprintf(os.Stderr, "Error: no note with id %s\n", args[0])
			os.Exit(1)
		}

		fmt.Println(ui.RenderTitle(n.DisplayTitle()))
		fmt.Println(ui.RenderDim(fmt.Sprintf("id=%s created=%s updated=%s",
			n.ID,
			time.UnixMilli(n.CreatedAt).Format(time.RFC3339),
			time.UnixMilli(n.UpdatedAt).Format(time.RFC3339))))
		if n.Content != "" {
			fmt.Printf("\n%s\n", n.Content)
		}
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long: `Create a note.

The note appears in the collection immediately with a locally generated id;
persistence happens in the background and may rekey it to a server id.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		if err := a.session.Load(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading notes: %v\n", err)
			os.Exit(1)
		}

		a.session.CreateNote()
		if createTitle != "" {
			a.session.EditTitle(createTitle)
		}
		if createContent != "" {
			a.session.EditContent(createContent)
		}
		a.session.Blur()
		a.session.Flush()

		n := a.session.Selected()
		if n == nil {
			fmt.Fprintf(os.Stderr, "%s could not create the note\n", ui.RenderFail("✗"))
			os.Exit(1)
		}
		fmt.Printf("%s Created %s %s\n", ui.RenderPass("✓"), ui.RenderDim(n.ID), ui.RenderTitle(n.DisplayTitle()))
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note's title or content",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		editSetTitle := cmd.Flags().Changed("title")
		editSetContent := cmd.Flags().Changed("content")
		if !editSetTitle && !editSetContent {
			fmt.Fprintln(os.Stderr, "Error: nothing to change (use --title and/or --content)")
			os.Exit(1)
		}

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		if err := a.session.Load(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading notes: %v\n", err)
			os.Exit(1)
		}

		a.session.Select(args[0])
		if a.session.SelectedID() != args[0] {
			fmt.Fprintf(os.Stderr, "Error: no note with id %s\n", args[0])
			os.Exit(1)
		}

		if editSetTitle {
			a.session.EditTitle(editTitle)
		}
		if editSetContent {
			a.session.EditContent(editContent)
		}
		a.session.Blur()
		a.session.Flush()

		n := a.session.Selected()
		fmt.Printf("%s Saved %s %s\n", ui.RenderPass("✓"), ui.RenderDim(n.ID), ui.RenderTitle(n.DisplayTitle()))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Long: `Delete a note.

The note is removed from the collection immediately and restored at the
head of the list if the underlying delete is not confirmed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		if err := a.session.Load(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading notes: %v\n", err)
			os.Exit(1)
		}

		a.session.RequestDelete(args[0])

		confirmed := deleteYes
		if !confirmed {
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Delete note %s?", args[0])).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed)
			if err := prompt.Run(); err != nil {
				confirmed = false
			}
		}

		if !confirmed {
			a.session.CancelDelete()
			fmt.Println(ui.RenderDim("Cancelled."))
			return
		}

		a.session.ConfirmDelete()
		a.session.Wait()
		fmt.Printf("%s Deleted %s\n", ui.RenderPass("✓"), ui.RenderDim(args[0]))
	},
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "case-insensitive substring search")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "updated", "sort order: updated, created, title")
	listCmd.Flags().BoolVar(&listShowEmpty, "all", false, "include empty notes")

	createCmd.Flags().StringVar(&createTitle, "title", "", "note title")
	createCmd.Flags().StringVar(&createContent, "content", "", "note content")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editContent, "content", "", "new content")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
