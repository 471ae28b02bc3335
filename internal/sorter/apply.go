package sorter

import (
	"context"
	"path/filepath"

	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/services"
)

// Outcome records what happened to one photo.
type Outcome struct {
	Path  string `json:"path"`
	Dest  string `json:"dest,omitempty"`
	Group int    `json:"group"`
	// Kind is empty for a clean move, destination_collision when the name was
	// suffixed, or the failure kind.
	Kind services.ErrorKind `json:"kind,omitempty"`
	Err  error              `json:"-"`
}

// Failed reports whether the photo was left in place because of an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Report summarizes an Apply call.
type Report struct {
	RunID     string    `json:"run_id"`
	DryRun    bool      `json:"dry_run"`
	Moved     int       `json:"moved"`
	Renamed   int       `json:"renamed"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Cancelled bool      `json:"cancelled"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Apply moves every planned photo into root/<folder>. No per-file error
// aborts the run; cancellation stops it between files and the remaining
// photos are counted as skipped. In dry-run mode destinations are computed
// but nothing on disk changes.
func (s *Sorter) Apply(ctx context.Context, plan Plan, root string, dryRun bool) Report {
	ctx = services.WithRunID(ctx, plan.RunID)
	logger := logging.WithContext(ctx, s.logger)
	report := Report{RunID: plan.RunID, DryRun: dryRun}

	for _, group := range plan.Groups {
		groupCtx := services.WithGroup(ctx, group.Number)
		groupLogger := logging.WithContext(groupCtx, s.logger)
		dir := filepath.Join(root, group.Label.Folder)
		moved := 0
		for _, photo := range group.Files {
			if ctx.Err() != nil {
				report.Cancelled = true
				report.Skipped++
				continue
			}
			outcome := Outcome{Path: photo.Path, Group: group.Number}
			var (
				dest    string
				renamed bool
				err     error
			)
			if dryRun {
				dest, renamed, err = fileutil.UniquePath(dir, photo.Name)
			} else {
				dest, renamed, err = fileutil.MoveUnique(photo.Path, dir)
			}
			switch {
			case err != nil:
				outcome.Err = services.Wrap(services.ErrMoveFailed, "sorter", "move", photo.Name, err)
				outcome.Kind = services.Kind(outcome.Err)
				report.Failed++
				logging.WarnWithContext(groupLogger, "photo not moved", "move_failed",
					logging.String(logging.FieldPath, photo.Path),
					logging.String("dest_dir", dir),
					logging.Error(err),
					logging.String(logging.FieldImpact, "photo left in the source directory"),
					logging.String(logging.FieldErrorHint, "check destination permissions and free space"),
				)
			default:
				outcome.Dest = dest
				report.Moved++
				moved++
				if renamed {
					outcome.Kind = services.KindDestinationCollision
					report.Renamed++
					groupLogger.Info("name collision resolved",
						logging.String(logging.FieldPath, photo.Path),
						logging.String("dest", dest),
					)
				}
			}
			report.Outcomes = append(report.Outcomes, outcome)
		}
		groupLogger.Debug("group applied",
			logging.String("folder", group.Label.Folder),
			logging.Int("moved", moved),
			logging.Bool("dry_run", dryRun),
		)
	}

	msg := "sort complete"
	if report.Cancelled {
		msg = "sort cancelled"
	}
	logger.Info(msg,
		logging.Int("moved", report.Moved),
		logging.Int("renamed", report.Renamed),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped),
		logging.Bool("dry_run", dryRun),
	)
	return report
}
