// Package main provides the vidshelf command line client.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	apiconnect "github.com/osa030/vidshelf/internal/api/connect"
)

var (
	app    = kingpin.New("vidctl", "vidshelf client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("VIDSHELF_SERVER").String()
	token  = app.Flag("token", "API token (or set VIDSHELF_TOKEN env)").Envar("VIDSHELF_TOKEN").String()
	lang   = app.Flag("lang", "Preferred message language (Accept-Language)").Default("").String()

	// library commands
	libraryCmd = app.Command("library", "Manage the video library")
	listCmd    = libraryCmd.Command("list", "List videos").Default()
	addCmd     = libraryCmd.Command("add", "Add a video file")
	addFile    = addCmd.Arg("file", "Video file path").Required().ExistingFile()
	renameCmd  = libraryCmd.Command("rename", "Rename a video")
	renameID   = renameCmd.Arg("id", "Video ID").Required().String()
	renameName = renameCmd.Arg("name", "New name").Required().String()
	removeCmd  = libraryCmd.Command("remove", "Remove a video").Alias("rm")
	removeID   = removeCmd.Arg("id", "Video ID").Required().String()
	selectCmd  = libraryCmd.Command("select", "Select a video for playback")
	selectID   = selectCmd.Arg("id", "Video ID").Required().String()

	// player commands
	playerCmd       = app.Command("player", "Control the player")
	stateCmd        = playerCmd.Command("state", "Show the player state").Default()
	playCmd         = playerCmd.Command("play", "Start playback")
	pauseCmd        = playerCmd.Command("pause", "Pause playback")
	seekCmd         = playerCmd.Command("seek", "Seek to a fraction of the duration")
	seekFraction    = seekCmd.Arg("fraction", "Position between 0 and 1").Required().Float64()
	volumeCmd       = playerCmd.Command("volume", "Set the volume")
	volumeValue     = volumeCmd.Arg("volume", "Volume between 0 and 1").Required().Float64()
	muteCmd         = playerCmd.Command("mute", "Toggle mute")
	fullscreenCmd   = playerCmd.Command("fullscreen", "Toggle fullscreen")
	brightnessCmd   = playerCmd.Command("brightness", "Set the brightness")
	brightnessValue = brightnessCmd.Arg("brightness", "Brightness between 0 and 2").Required().Float64()
	clearCmd        = playerCmd.Command("clear", "Unbind the current video")
	resetCmd        = playerCmd.Command("reset", "Leave the error state")

	// watch command
	watchCmd = app.Command("watch", "Stream player notifications")

	// planner commands
	plannerCmd      = app.Command("planner", "Daily planner")
	dayCmd          = plannerCmd.Command("day", "Show a day").Default()
	dayDate         = dayCmd.Arg("date", "Date (YYYY-MM-DD, default today)").String()
	weekCmd         = plannerCmd.Command("week", "Show a week")
	weekDate        = weekCmd.Arg("date", "Any date in the week (default today)").String()
	taskCmd         = plannerCmd.Command("task", "Manage tasks")
	taskAddCmd      = taskCmd.Command("add", "Add a task")
	taskAddTitle    = taskAddCmd.Arg("title", "Task title").Required().String()
	taskAddDate     = taskAddCmd.Flag("date", "Date (YYYY-MM-DD, default today)").String()
	taskDoneCmd     = taskCmd.Command("done", "Mark a task done")
	taskDoneID      = taskDoneCmd.Arg("id", "Task ID").Required().String()
	taskDoneUndo    = taskDoneCmd.Flag("undo", "Mark the task not done").Bool()
	taskDeleteCmd   = taskCmd.Command("delete", "Delete a task").Alias("rm")
	taskDeleteID    = taskDeleteCmd.Arg("id", "Task ID").Required().String()
	reflectCmd      = plannerCmd.Command("reflect", "Set the reflection of a day")
	reflectText     = reflectCmd.Arg("text", "Reflection text (empty clears)").Required().String()
	reflectDate     = reflectCmd.Flag("date", "Date (YYYY-MM-DD, default today)").String()
	linkCmd         = plannerCmd.Command("link", "Manage links")
	linkAddCmd      = linkCmd.Command("add", "Add a link")
	linkAddTitle    = linkAddCmd.Arg("title", "Link title").Required().String()
	linkAddURL      = linkAddCmd.Arg("url", "Link URL").Required().String()
	linkDeleteCmd   = linkCmd.Command("delete", "Delete a link").Alias("rm")
	linkDeleteID    = linkDeleteCmd.Arg("id", "Link ID").Required().String()
	noteCmd         = plannerCmd.Command("note", "Manage notes")
	noteAddCmd      = noteCmd.Command("add", "Add a note")
	noteAddTitle    = noteAddCmd.Arg("title", "Note title").Required().String()
	noteAddBody     = noteAddCmd.Arg("body", "Note body").String()
	noteUpdateCmd   = noteCmd.Command("update", "Update a note")
	noteUpdateID    = noteUpdateCmd.Arg("id", "Note ID").Required().String()
	noteUpdateTitle = noteUpdateCmd.Arg("title", "Note title").Required().String()
	noteUpdateBody  = noteUpdateCmd.Arg("body", "Note body").String()
	noteDeleteCmd   = noteCmd.Command("delete", "Delete a note").Alias("rm")
	noteDeleteID    = noteDeleteCmd.Arg("id", "Note ID").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	opts := []connect.ClientOption{
		connect.WithInterceptors(apiconnect.NewTokenClientInterceptor(*token)),
	}
	library := apiv1.NewLibraryServiceClient(http.DefaultClient, *server, opts...)
	player := apiv1.NewPlayerServiceClient(http.DefaultClient, *server, opts...)
	planner := apiv1.NewPlannerServiceClient(http.DefaultClient, *server, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	// library
	case listCmd.FullCommand():
		err = listVideos(ctx, library)
	case addCmd.FullCommand():
		err = addVideo(ctx, library, *addFile)
	case renameCmd.FullCommand():
		err = renameVideo(ctx, library, *renameID, *renameName)
	case removeCmd.FullCommand():
		err = removeVideo(ctx, library, *removeID)
	case selectCmd.FullCommand():
		err = printState(library.SelectVideo(ctx, newRequest(&apiv1.SelectVideoRequest{Id: *selectID})))

	// player
	case stateCmd.FullCommand():
		err = printState(player.GetState(ctx, newRequest(&apiv1.Empty{})))
	case playCmd.FullCommand():
		err = printState(player.Play(ctx, newRequest(&apiv1.Empty{})))
	case pauseCmd.FullCommand():
		err = printState(player.Pause(ctx, newRequest(&apiv1.Empty{})))
	case seekCmd.FullCommand():
		err = printState(player.Seek(ctx, newRequest(&apiv1.SeekRequest{Fraction: *seekFraction})))
	case volumeCmd.FullCommand():
		err = printState(player.SetVolume(ctx, newRequest(&apiv1.SetVolumeRequest{Volume: *volumeValue})))
	case muteCmd.FullCommand():
		err = printState(player.ToggleMute(ctx, newRequest(&apiv1.Empty{})))
	case fullscreenCmd.FullCommand():
		err = printState(player.ToggleFullscreen(ctx, newRequest(&apiv1.Empty{})))
	case brightnessCmd.FullCommand():
		err = printState(player.SetBrightness(ctx, newRequest(&apiv1.SetBrightnessRequest{Brightness: *brightnessValue})))
	case clearCmd.FullCommand():
		err = printState(player.Clear(ctx, newRequest(&apiv1.Empty{})))
	case resetCmd.FullCommand():
		err = printState(player.Reset(ctx, newRequest(&apiv1.Empty{})))

	case watchCmd.FullCommand():
		err = watch(ctx, player)

	// planner
	case dayCmd.FullCommand():
		err = printDay(planner.GetDay(ctx, newRequest(&apiv1.GetDayRequest{Date: *dayDate})))
	case weekCmd.FullCommand():
		err = showWeek(ctx, planner, *weekDate)
	case taskAddCmd.FullCommand():
		err = printTask(planner.AddTask(ctx, newRequest(&apiv1.AddTaskRequest{Date: *taskAddDate, Title: *taskAddTitle})))
	case taskDoneCmd.FullCommand():
		err = printTask(planner.SetTaskDone(ctx, newRequest(&apiv1.SetTaskDoneRequest{Id: *taskDoneID, Done: !*taskDoneUndo})))
	case taskDeleteCmd.FullCommand():
		_, err = planner.DeleteTask(ctx, newRequest(&apiv1.DeleteRequest{Id: *taskDeleteID}))
		printDeleted(err, "Task")
	case reflectCmd.FullCommand():
		err = printDay(planner.SetReflection(ctx, newRequest(&apiv1.SetReflectionRequest{Date: *reflectDate, Text: *reflectText})))
	case linkAddCmd.FullCommand():
		err = addLink(ctx, planner, *linkAddTitle, *linkAddURL)
	case linkDeleteCmd.FullCommand():
		_, err = planner.DeleteLink(ctx, newRequest(&apiv1.DeleteRequest{Id: *linkDeleteID}))
		printDeleted(err, "Link")
	case noteAddCmd.FullCommand():
		err = printNote(planner.AddNote(ctx, newRequest(&apiv1.AddNoteRequest{Title: *noteAddTitle, Body: *noteAddBody})))
	case noteUpdateCmd.FullCommand():
		err = printNote(planner.UpdateNote(ctx, newRequest(&apiv1.UpdateNoteRequest{Id: *noteUpdateID, Title: *noteUpdateTitle, Body: *noteUpdateBody})))
	case noteDeleteCmd.FullCommand():
		_, err = planner.DeleteNote(ctx, newRequest(&apiv1.DeleteRequest{Id: *noteDeleteID}))
		printDeleted(err, "Note")
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// newRequest wraps a message and applies the language preference.
func newRequest[T any](msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if *lang != "" {
		req.Header().Set("Accept-Language", *lang)
	}
	return req
}

func listVideos(ctx context.Context, client *apiv1.LibraryServiceClient) error {
	resp, err := client.ListVideos(ctx, newRequest(&apiv1.ListVideosRequest{}))
	if err != nil {
		return err
	}

	fmt.Printf("\n=== LIBRARY (%d videos, %s) ===\n", len(resp.Msg.Videos), humanize.IBytes(uint64(resp.Msg.TotalBytes)))
	for _, v := range resp.Msg.Videos {
		fmt.Printf("  %s  %-30s %10s  %-16s %s\n",
			v.Id, v.Name, humanize.IBytes(uint64(v.SizeBytes)), v.MimeType, humanize.Time(v.CreatedAt))
	}
	fmt.Println()
	return nil
}

func addVideo(ctx context.Context, client *apiv1.LibraryServiceClient, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	resp, err := client.AddVideo(ctx, newRequest(&apiv1.AddVideoRequest{
		FileName: filepath.Base(path),
		Data:     data,
	}))
	if err != nil {
		return err
	}

	if resp.Msg.Success {
		fmt.Printf("%s\n  ID: %s\n  Name: %s\n", resp.Msg.Message, resp.Msg.Video.Id, resp.Msg.Video.Name)
	} else {
		fmt.Printf("Failed (%s): %s\n", resp.Msg.Code, resp.Msg.Message)
	}
	return nil
}

func renameVideo(ctx context.Context, client *apiv1.LibraryServiceClient, id, name string) error {
	resp, err := client.RenameVideo(ctx, newRequest(&apiv1.RenameVideoRequest{Id: id, Name: name}))
	if err != nil {
		return err
	}
	fmt.Printf("Renamed: %s -> %s\n", resp.Msg.Video.Id, resp.Msg.Video.Name)
	return nil
}

func removeVideo(ctx context.Context, client *apiv1.LibraryServiceClient, id string) error {
	resp, err := client.RemoveVideo(ctx, newRequest(&apiv1.RemoveVideoRequest{Id: id}))
	if err != nil {
		return err
	}
	fmt.Println(resp.Msg.Message)
	return nil
}

func printState(resp *connect.Response[apiv1.PlayerStateResponse], err error) error {
	if err != nil {
		return err
	}
	printPlayerState(resp.Msg.State)
	return nil
}

func printPlayerState(s *apiv1.PlayerState) {
	if s == nil {
		return
	}
	fmt.Println("\n=== PLAYER ===")
	fmt.Printf("State: %s\n", formatState(s))
	if s.ActiveId != nil {
		fmt.Printf("  Video: %s (%s)\n", s.DisplayName, *s.ActiveId)
		fmt.Printf("  Position: %s / %s\n", formatSeconds(s.CurrentTime), formatSeconds(s.Duration))
	} else {
		fmt.Println("  No video selected")
	}
	fmt.Printf("  Volume: %.0f%%", s.Volume*100)
	if s.IsMuted {
		fmt.Print(" (muted)")
	}
	fmt.Printf("\n  Brightness: %.0f%%\n", s.Brightness*100)
	fmt.Printf("  Fullscreen: %v\n", s.IsFullscreen)
	if s.Error != "" {
		fmt.Printf("  Error: %s\n", s.Error)
	}
	fmt.Printf("  Library: %d videos\n", len(s.Playlist))
	fmt.Println()
}

func formatState(s *apiv1.PlayerState) string {
	switch {
	case s.IsPlaying:
		return "▶️  Playing"
	case s.State == "paused":
		return "⏸  Paused"
	case s.State == "ready":
		return "⏺  Ready"
	case s.State == "loading":
		return "⏳ Loading"
	case s.State == "error":
		return "❌ Error"
	case s.State == "empty":
		return "⏹  Empty"
	default:
		return s.State
	}
}

func formatSeconds(sec float64) string {
	return (time.Duration(sec) * time.Second).String()
}

func watch(ctx context.Context, client *apiv1.PlayerServiceClient) error {
	stream, err := client.WatchState(ctx, newRequest(&apiv1.WatchStateRequest{}))
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	fmt.Println("Watching player state. Press Ctrl+C to exit.")

	var initialSeq uint64
	for stream.Receive() {
		n := stream.Msg()
		if n.Type == apiv1.NotificationTypeInitialState {
			initialSeq = n.SequenceNo
		} else if n.SequenceNo < initialSeq {
			// Broadcast before the snapshot we already have
			continue
		}
		printNotification(n)
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Println("\nStopped watching")
	return nil
}

func printNotification(n *apiv1.Notification) {
	fmt.Printf("\n[Sequence: %d] ", n.SequenceNo)

	switch n.Type {
	case apiv1.NotificationTypeInitialState:
		fmt.Println("=== INITIAL STATE ===")
	case apiv1.NotificationTypeChangeState:
		fmt.Println("=== STATE CHANGED ===")
	case apiv1.NotificationTypeElement:
		fmt.Println("=== ELEMENT COMMAND ===")
	case apiv1.NotificationTypeFullscreen:
		fmt.Println("=== FULLSCREEN ===")
	case apiv1.NotificationTypeToast:
		fmt.Println("=== MESSAGE ===")
	default:
		fmt.Printf("=== UNKNOWN EVENT (%s) ===\n", n.Type)
	}

	printPlayerState(n.State)
	if n.Command != nil {
		fmt.Printf("  %s (generation %d)", n.Command.Kind, n.Command.Generation)
		if n.Command.Url != "" {
			fmt.Printf(" url=%s", n.Command.Url)
		}
		fmt.Println()
	}
	if n.Fullscreen != nil {
		fmt.Printf("  %s %s\n", n.Fullscreen.Action, n.Fullscreen.ContainerId)
	}
	if n.Toast != nil {
		fmt.Printf("  [%s] %s\n", n.Toast.Code, n.Toast.Message)
	}
}

func printDay(resp *connect.Response[apiv1.GetDayResponse], err error) error {
	if err != nil {
		return err
	}

	d := resp.Msg.Day
	fmt.Printf("\n=== %s ===\n", d.Date)
	printTasks(d.Tasks)
	if d.Reflection != "" {
		fmt.Printf("\nReflection:\n  %s\n", d.Reflection)
	}
	if len(resp.Msg.Links) > 0 {
		fmt.Println("\nLinks:")
		for _, l := range resp.Msg.Links {
			fmt.Printf("  %s  %s <%s>\n", l.Id, l.Title, l.Url)
		}
	}
	if len(resp.Msg.Notes) > 0 {
		fmt.Println("\nNotes:")
		for _, n := range resp.Msg.Notes {
			fmt.Printf("  %s  %s (updated %s)\n", n.Id, n.Title, humanize.Time(n.UpdatedAt))
		}
	}
	fmt.Println()
	return nil
}

func showWeek(ctx context.Context, client *apiv1.PlannerServiceClient, date string) error {
	resp, err := client.GetWeek(ctx, newRequest(&apiv1.GetWeekRequest{Date: date}))
	if err != nil {
		return err
	}

	fmt.Printf("\n=== WEEK OF %s ===\n", resp.Msg.Start)
	for _, d := range resp.Msg.Days {
		done := 0
		for _, t := range d.Tasks {
			if t.Done {
				done++
			}
		}
		fmt.Printf("\n%s  (%d/%d done)\n", d.Date, done, len(d.Tasks))
		printTasks(d.Tasks)
	}
	fmt.Println()
	return nil
}

func printTasks(tasks []*apiv1.Task) {
	for _, t := range tasks {
		mark := "[ ]"
		if t.Done {
			mark = "[x]"
		}
		fmt.Printf("  %s %s  %s\n", mark, t.Title, t.Id)
	}
}

func printTask(resp *connect.Response[apiv1.TaskResponse], err error) error {
	if err != nil {
		return err
	}
	t := resp.Msg.Task
	fmt.Printf("Task %s on %s: %s (done: %v)\n", t.Id, t.Date, t.Title, t.Done)
	return nil
}

func addLink(ctx context.Context, client *apiv1.PlannerServiceClient, title, url string) error {
	resp, err := client.AddLink(ctx, newRequest(&apiv1.AddLinkRequest{Title: title, Url: url}))
	if err != nil {
		return err
	}
	fmt.Printf("Link %s added: %s <%s>\n", resp.Msg.Link.Id, resp.Msg.Link.Title, resp.Msg.Link.Url)
	return nil
}

func printNote(resp *connect.Response[apiv1.NoteResponse], err error) error {
	if err != nil {
		return err
	}
	n := resp.Msg.Note
	fmt.Printf("Note %s: %s\n", n.Id, n.Title)
	if n.Body != "" {
		fmt.Printf("  %s\n", n.Body)
	}
	return nil
}

func printDeleted(err error, what string) {
	if err == nil {
		fmt.Printf("%s deleted\n", what)
	}
}
