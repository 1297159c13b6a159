package connect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/app/planner"
	"github.com/osa030/vidshelf/internal/app/session"
	"github.com/osa030/vidshelf/internal/i18n"
	"github.com/osa030/vidshelf/internal/infra/blobstore"
	"github.com/osa030/vidshelf/internal/infra/config"
)

const testToken = "secret"

type testEnv struct {
	session    *session.Manager
	library    *apiv1.LibraryServiceClient
	player     *apiv1.PlayerServiceClient
	planner    *apiv1.PlannerServiceClient
	httpClient *http.Client
	url        string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	sess, err := session.NewManager(cfg, blobstore.NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, sess.Start(ctx))

	store, err := planner.Open(ctx, filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)

	r := chi.NewRouter()
	Register(r, NewLibraryService(sess), NewPlayerService(sess), NewPlannerService(store),
		connect.WithInterceptors(NewAuthInterceptor(testToken)))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		sess.Close()
		srv.Close()
		_ = store.Close()
	})

	opt := connect.WithInterceptors(NewTokenClientInterceptor(testToken))
	return &testEnv{
		session:    sess,
		library:    apiv1.NewLibraryServiceClient(srv.Client(), srv.URL, opt),
		player:     apiv1.NewPlayerServiceClient(srv.Client(), srv.URL, opt),
		planner:    apiv1.NewPlannerServiceClient(srv.Client(), srv.URL, opt),
		httpClient: srv.Client(),
		url:        srv.URL,
	}
}

func (e *testEnv) addVideo(t *testing.T, name string, size int) *apiv1.AddVideoResponse {
	t.Helper()
	resp, err := e.library.AddVideo(context.Background(), connect.NewRequest(&apiv1.AddVideoRequest{
		FileName: name,
		Data:     make([]byte, size),
	}))
	require.NoError(t, err)
	return resp.Msg
}

func TestAuthInterceptor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
		code  connect.Code
	}{
		{name: "missing", token: "", code: connect.CodeUnauthenticated},
		{name: "wrong", token: "nope", code: connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := apiv1.NewLibraryServiceClient(env.httpClient, env.url,
				connect.WithInterceptors(NewTokenClientInterceptor(tt.token)))
			_, err := client.ListVideos(ctx, connect.NewRequest(&apiv1.ListVideosRequest{}))
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err))

			player := apiv1.NewPlayerServiceClient(env.httpClient, env.url,
				connect.WithInterceptors(NewTokenClientInterceptor(tt.token)))
			stream, err := player.WatchState(ctx, connect.NewRequest(&apiv1.WatchStateRequest{}))
			require.NoError(t, err)
			assert.False(t, stream.Receive())
			assert.Equal(t, tt.code, connect.CodeOf(stream.Err()))
			_ = stream.Close()
		})
	}

	_, err := env.library.ListVideos(ctx, connect.NewRequest(&apiv1.ListVideosRequest{}))
	assert.NoError(t, err)
}

func TestAuthInterceptor_Disabled(t *testing.T) {
	i := NewAuthInterceptor("").(*authInterceptor)
	assert.True(t, i.valid(""))
	assert.True(t, i.valid("anything"))
}

func TestLibraryService_AddVideo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	added := env.addVideo(t, "a.mp4", 100)
	assert.True(t, added.Success)
	assert.Equal(t, "added", added.Code)
	require.NotNil(t, added.Video)
	assert.Equal(t, "a", added.Video.Name)
	assert.Equal(t, int64(100), added.Video.SizeBytes)

	req := connect.NewRequest(&apiv1.AddVideoRequest{FileName: "a.mp4", Data: make([]byte, 100)})
	req.Header().Set("Accept-Language", "ja")
	dup, err := env.library.AddVideo(ctx, req)
	require.NoError(t, err)
	assert.False(t, dup.Msg.Success)
	assert.Equal(t, "duplicate", dup.Msg.Code)
	assert.Equal(t, i18n.For(i18n.LocaleJA).Duplicate, dup.Msg.Message)

	list, err := env.library.ListVideos(ctx, connect.NewRequest(&apiv1.ListVideosRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Videos, 1)
	assert.Equal(t, int64(100), list.Msg.TotalBytes)

	_, err = env.library.AddVideo(ctx, connect.NewRequest(&apiv1.AddVideoRequest{FileName: "", Data: []byte("x")}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = env.library.AddVideo(ctx, connect.NewRequest(&apiv1.AddVideoRequest{FileName: "x.mp4"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestLibraryService_RenameRemoveSelect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	added := env.addVideo(t, "a.mp4", 10)

	renamed, err := env.library.RenameVideo(ctx, connect.NewRequest(&apiv1.RenameVideoRequest{Id: added.Video.Id, Name: "Trip"}))
	require.NoError(t, err)
	assert.Equal(t, "Trip", renamed.Msg.Video.Name)

	_, err = env.library.RenameVideo(ctx, connect.NewRequest(&apiv1.RenameVideoRequest{Id: added.Video.Id, Name: " "}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = env.library.RenameVideo(ctx, connect.NewRequest(&apiv1.RenameVideoRequest{Id: "video-0", Name: "x"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	selected, err := env.library.SelectVideo(ctx, connect.NewRequest(&apiv1.SelectVideoRequest{Id: added.Video.Id}))
	require.NoError(t, err)
	require.NotNil(t, selected.Msg.State.ActiveId)
	assert.Equal(t, added.Video.Id, *selected.Msg.State.ActiveId)
	assert.Equal(t, "Trip", selected.Msg.State.DisplayName)

	_, err = env.library.RemoveVideo(ctx, connect.NewRequest(&apiv1.RemoveVideoRequest{Id: added.Video.Id}))
	require.NoError(t, err)
	state, err := env.player.GetState(ctx, connect.NewRequest(&apiv1.Empty{}))
	require.NoError(t, err)
	assert.Nil(t, state.Msg.State.ActiveId)
	assert.Equal(t, "empty", state.Msg.State.State)

	_, err = env.library.SelectVideo(ctx, connect.NewRequest(&apiv1.SelectVideoRequest{Id: added.Video.Id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestPlayerService_Transport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.player.Play(ctx, connect.NewRequest(&apiv1.Empty{}))
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	env.addVideo(t, "a.mp4", 10)
	state, err := env.player.GetState(ctx, connect.NewRequest(&apiv1.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, "loading", state.Msg.State.State)
	gen := state.Msg.State.Generation

	stale, err := env.player.ReportElementEvent(ctx, connect.NewRequest(&apiv1.ReportElementEventRequest{
		Type: "loadedmetadata", Generation: gen - 1, Duration: 10,
	}))
	require.NoError(t, err)
	assert.False(t, stale.Msg.Applied)

	applied, err := env.player.ReportElementEvent(ctx, connect.NewRequest(&apiv1.ReportElementEventRequest{
		Type: "loadedmetadata", Generation: gen, Duration: 10,
	}))
	require.NoError(t, err)
	assert.True(t, applied.Msg.Applied)

	played, err := env.player.Play(ctx, connect.NewRequest(&apiv1.Empty{}))
	require.NoError(t, err)
	assert.True(t, played.Msg.State.IsPlaying)

	sought, err := env.player.Seek(ctx, connect.NewRequest(&apiv1.SeekRequest{Fraction: 1}))
	require.NoError(t, err)
	assert.InDelta(t, 10, sought.Msg.State.CurrentTime, 1e-9)

	_, err = env.player.SetVolume(ctx, connect.NewRequest(&apiv1.SetVolumeRequest{Volume: 0.6}))
	require.NoError(t, err)
	_, err = env.player.ToggleMute(ctx, connect.NewRequest(&apiv1.Empty{}))
	require.NoError(t, err)
	unmuted, err := env.player.ToggleMute(ctx, connect.NewRequest(&apiv1.Empty{}))
	require.NoError(t, err)
	assert.False(t, unmuted.Msg.State.IsMuted)
	assert.InDelta(t, 0.6, unmuted.Msg.State.Volume, 1e-9)

	_, err = env.player.SetVolume(ctx, connect.NewRequest(&apiv1.SetVolumeRequest{Volume: 2}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = env.player.SetBrightness(ctx, connect.NewRequest(&apiv1.SetBrightnessRequest{Brightness: 3}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = env.player.ReportElementEvent(ctx, connect.NewRequest(&apiv1.ReportElementEventRequest{Type: "seeked"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = env.player.Reset(ctx, connect.NewRequest(&apiv1.Empty{}))
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
	_, err = env.player.ToggleFullscreen(ctx, connect.NewRequest(&apiv1.Empty{}))
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	cleared, err := env.player.Clear(ctx, connect.NewRequest(&apiv1.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, "empty", cleared.Msg.State.State)
	assert.InDelta(t, 0.6, cleared.Msg.State.Volume, 1e-9)
}

func TestPlayerService_WatchState(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := env.player.WatchState(ctx, connect.NewRequest(&apiv1.WatchStateRequest{}))
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	require.True(t, stream.Receive(), "initial state: %v", stream.Err())
	initial := stream.Msg()
	assert.Equal(t, apiv1.NotificationTypeInitialState, initial.Type)
	require.NotNil(t, initial.State)
	assert.Empty(t, initial.State.Playlist)

	env.addVideo(t, "a.mp4", 10)

	var sawSource, sawState bool
	for !(sawSource && sawState) && stream.Receive() {
		n := stream.Msg()
		if n.SequenceNo < initial.SequenceNo {
			continue
		}
		switch n.Type {
		case apiv1.NotificationTypeElement:
			if n.Command.Kind == "source" && n.Command.Url != "" {
				sawSource = true
			}
		case apiv1.NotificationTypeChangeState:
			if len(n.State.Playlist) == 1 && n.State.ActiveId != nil {
				sawState = true
			}
		}
	}
	assert.True(t, sawSource)
	assert.True(t, sawState)
}

func TestPlannerService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.planner.AddTask(ctx, connect.NewRequest(&apiv1.AddTaskRequest{Date: "2026-10-14", Title: "review"}))
	require.NoError(t, err)
	_, err = env.planner.SetTaskDone(ctx, connect.NewRequest(&apiv1.SetTaskDoneRequest{Id: task.Msg.Task.Id, Done: true}))
	require.NoError(t, err)

	day, err := env.planner.SetReflection(ctx, connect.NewRequest(&apiv1.SetReflectionRequest{Date: "2026-10-14", Text: "calm"}))
	require.NoError(t, err)
	assert.Equal(t, "calm", day.Msg.Day.Reflection)
	require.Len(t, day.Msg.Day.Tasks, 1)
	assert.True(t, day.Msg.Day.Tasks[0].Done)

	week, err := env.planner.GetWeek(ctx, connect.NewRequest(&apiv1.GetWeekRequest{Date: "2026-10-14"}))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-12", week.Msg.Start)
	require.Len(t, week.Msg.Days, 7)
	assert.Len(t, week.Msg.Days[2].Tasks, 1)

	_, err = env.planner.AddLink(ctx, connect.NewRequest(&apiv1.AddLinkRequest{Title: "bad", Url: "nope"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	link, err := env.planner.AddLink(ctx, connect.NewRequest(&apiv1.AddLinkRequest{Title: "Go", Url: "https://go.dev"}))
	require.NoError(t, err)

	note, err := env.planner.AddNote(ctx, connect.NewRequest(&apiv1.AddNoteRequest{Title: "sync", Body: "agenda"}))
	require.NoError(t, err)
	updated, err := env.planner.UpdateNote(ctx, connect.NewRequest(&apiv1.UpdateNoteRequest{Id: note.Msg.Note.Id, Title: "sync", Body: "minutes"}))
	require.NoError(t, err)
	assert.Equal(t, "minutes", updated.Msg.Note.Body)

	got, err := env.planner.GetDay(ctx, connect.NewRequest(&apiv1.GetDayRequest{Date: "2026-10-14"}))
	require.NoError(t, err)
	assert.Len(t, got.Msg.Links, 1)
	assert.Len(t, got.Msg.Notes, 1)

	_, err = env.planner.DeleteLink(ctx, connect.NewRequest(&apiv1.DeleteRequest{Id: link.Msg.Link.Id}))
	require.NoError(t, err)
	_, err = env.planner.DeleteNote(ctx, connect.NewRequest(&apiv1.DeleteRequest{Id: note.Msg.Note.Id}))
	require.NoError(t, err)
	_, err = env.planner.DeleteTask(ctx, connect.NewRequest(&apiv1.DeleteRequest{Id: task.Msg.Task.Id}))
	require.NoError(t, err)
	_, err = env.planner.DeleteTask(ctx, connect.NewRequest(&apiv1.DeleteRequest{Id: task.Msg.Task.Id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.planner.GetDay(ctx, connect.NewRequest(&apiv1.GetDayRequest{Date: "tomorrow"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
