package session

import (
	"github.com/osa030/vidshelf/internal/api/apiv1"
	"github.com/osa030/vidshelf/internal/app/playback"
	"github.com/osa030/vidshelf/internal/domain/video"
)

// VideoFromRecord converts a record to its wire form, without content.
func VideoFromRecord(rec video.Record) *apiv1.Video {
	return &apiv1.Video{
		Id:        rec.ID,
		Name:      rec.Name,
		FileName:  rec.Content.FileName,
		MimeType:  rec.Content.MIMEType,
		SizeBytes: rec.Content.Size(),
		CreatedAt: rec.CreatedAt,
	}
}

// VideosFromRecords converts records and sums their sizes.
func VideosFromRecords(records []video.Record) ([]*apiv1.Video, int64) {
	videos := make([]*apiv1.Video, 0, len(records))
	var total int64
	for _, rec := range records {
		videos = append(videos, VideoFromRecord(rec))
		total += rec.Content.Size()
	}
	return videos, total
}

// BuildPlayerState combines the playlist with a playback snapshot.
func BuildPlayerState(records []video.Record, snap playback.Snapshot) *apiv1.PlayerState {
	playlist, _ := VideosFromRecords(records)
	ps := &apiv1.PlayerState{
		Playlist:     playlist,
		DisplayName:  snap.DisplayName,
		Url:          snap.URL,
		State:        snap.State.String(),
		IsPlaying:    snap.IsPlaying,
		CurrentTime:  snap.CurrentTime,
		Duration:     snap.Duration,
		Volume:       snap.Volume,
		IsMuted:      snap.IsMuted,
		Brightness:   snap.Brightness,
		IsFullscreen: snap.IsFullscreen,
		Generation:   snap.Generation,
		Error:        snap.Error,
	}
	if snap.ActiveID != "" {
		id := snap.ActiveID
		ps.ActiveId = &id
	}
	return ps
}

func buildElementCommand(cmd playback.Command) *apiv1.ElementCommand {
	return &apiv1.ElementCommand{
		Kind:       string(cmd.Kind),
		Url:        cmd.URL,
		Time:       cmd.Time,
		Volume:     cmd.Volume,
		Muted:      cmd.Muted,
		Generation: cmd.Generation,
	}
}
