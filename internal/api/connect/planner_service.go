package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/app/planner"
)

// PlannerService implements the PlannerService RPC.
type PlannerService struct {
	store *planner.Store
	now   func() time.Time
}

// NewPlannerService creates a new PlannerService.
func NewPlannerService(store *planner.Store) *PlannerService {
	return &PlannerService{store: store, now: time.Now}
}

// GetDay returns a day together with the shared links and notes.
func (s *PlannerService) GetDay(
	ctx context.Context,
	req *connect.Request[apiv1.GetDayRequest],
) (*connect.Response[apiv1.GetDayResponse], error) {
	resp, err := s.dayResponse(ctx, req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(resp), nil
}

// GetWeek returns the Monday-based week containing the date.
func (s *PlannerService) GetWeek(
	ctx context.Context,
	req *connect.Request[apiv1.GetWeekRequest],
) (*connect.Response[apiv1.GetWeekResponse], error) {
	date, err := planner.ParseDate(req.Msg.Date, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}
	week, err := s.store.Week(ctx, date)
	if err != nil {
		return nil, toConnectError(err)
	}

	days := make([]*apiv1.Day, 0, len(week.Days))
	for _, d := range week.Days {
		days = append(days, toDay(d))
	}
	return connect.NewResponse(&apiv1.GetWeekResponse{Start: week.Start, Days: days}), nil
}

// AddTask adds a to-do.
func (s *PlannerService) AddTask(
	ctx context.Context,
	req *connect.Request[apiv1.AddTaskRequest],
) (*connect.Response[apiv1.TaskResponse], error) {
	date := req.Msg.Date
	if date == "" {
		date = s.now().Format(planner.DateLayout)
	}
	task, err := s.store.AddTask(ctx, date, req.Msg.Title)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.TaskResponse{Task: toTask(task)}), nil
}

// SetTaskDone marks a to-do done or not done.
func (s *PlannerService) SetTaskDone(
	ctx context.Context,
	req *connect.Request[apiv1.SetTaskDoneRequest],
) (*connect.Response[apiv1.TaskResponse], error) {
	task, err := s.store.SetTaskDone(ctx, req.Msg.Id, req.Msg.Done)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.TaskResponse{Task: toTask(task)}), nil
}

// DeleteTask removes a to-do.
func (s *PlannerService) DeleteTask(
	ctx context.Context,
	req *connect.Request[apiv1.DeleteRequest],
) (*connect.Response[apiv1.Empty], error) {
	if err := s.store.DeleteTask(ctx, req.Msg.Id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.Empty{}), nil
}

// SetReflection stores the reflection of a day and returns the day.
func (s *PlannerService) SetReflection(
	ctx context.Context,
	req *connect.Request[apiv1.SetReflectionRequest],
) (*connect.Response[apiv1.GetDayResponse], error) {
	date := req.Msg.Date
	if date == "" {
		date = s.now().Format(planner.DateLayout)
	}
	if err := s.store.SetReflection(ctx, date, req.Msg.Text); err != nil {
		return nil, toConnectError(err)
	}
	resp, err := s.dayResponse(ctx, date)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(resp), nil
}

// AddLink stores a shared link.
func (s *PlannerService) AddLink(
	ctx context.Context,
	req *connect.Request[apiv1.AddLinkRequest],
) (*connect.Response[apiv1.LinkResponse], error) {
	link, err := s.store.AddLink(ctx, req.Msg.Title, req.Msg.Url)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.LinkResponse{Link: toLink(link)}), nil
}

// DeleteLink removes a shared link.
func (s *PlannerService) DeleteLink(
	ctx context.Context,
	req *connect.Request[apiv1.DeleteRequest],
) (*connect.Response[apiv1.Empty], error) {
	if err := s.store.DeleteLink(ctx, req.Msg.Id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.Empty{}), nil
}

// AddNote stores a meeting note.
func (s *PlannerService) AddNote(
	ctx context.Context,
	req *connect.Request[apiv1.AddNoteRequest],
) (*connect.Response[apiv1.NoteResponse], error) {
	note, err := s.store.AddNote(ctx, req.Msg.Title, req.Msg.Body)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.NoteResponse{Note: toNote(note)}), nil
}

// UpdateNote edits a meeting note.
func (s *PlannerService) UpdateNote(
	ctx context.Context,
	req *connect.Request[apiv1.UpdateNoteRequest],
) (*connect.Response[apiv1.NoteResponse], error) {
	note, err := s.store.UpdateNote(ctx, req.Msg.Id, req.Msg.Title, req.Msg.Body)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.NoteResponse{Note: toNote(note)}), nil
}

// DeleteNote removes a meeting note.
func (s *PlannerService) DeleteNote(
	ctx context.Context,
	req *connect.Request[apiv1.DeleteRequest],
) (*connect.Response[apiv1.Empty], error) {
	if err := s.store.DeleteNote(ctx, req.Msg.Id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&apiv1.Empty{}), nil
}

func (s *PlannerService) dayResponse(ctx context.Context, dateStr string) (*apiv1.GetDayResponse, error) {
	date, err := planner.ParseDate(dateStr, s.now())
	if err != nil {
		return nil, err
	}
	day, err := s.store.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	links, err := s.store.Links(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.Notes(ctx)
	if err != nil {
		return nil, err
	}

	resp := &apiv1.GetDayResponse{
		Day:   toDay(day),
		Links: make([]*apiv1.Link, 0, len(links)),
		Notes: make([]*apiv1.Note, 0, len(notes)),
	}
	for _, l := range links {
		resp.Links = append(resp.Links, toLink(l))
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toNote(n))
	}
	return resp, nil
}

func toTask(t planner.Task) *apiv1.Task {
	return &apiv1.Task{Id: t.ID, Date: t.Date, Title: t.Title, Done: t.Done, CreatedAt: t.CreatedAt}
}

func toLink(l planner.Link) *apiv1.Link {
	return &apiv1.Link{Id: l.ID, Title: l.Title, Url: l.URL, CreatedAt: l.CreatedAt}
}

func toNote(n planner.Note) *apiv1.Note {
	return &apiv1.Note{Id: n.ID, Title: n.Title, Body: n.Body, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

func toDay(d planner.Day) *apiv1.Day {
	tasks := make([]*apiv1.Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		tasks = append(tasks, toTask(t))
	}
	return &apiv1.Day{Date: d.Date, Tasks: tasks, Reflection: d.Reflection}
}
