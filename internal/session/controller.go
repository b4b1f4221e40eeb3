// Package session drives one respondent through the questionnaire flow:
// identify, pick a folder, skip straight to completion when a record
// already exists, otherwise collect answers and write the record.
package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/procs/pkg/types"
)

// Recorder is the persistence the controller needs.
type Recorder interface {
	Exists(ctx context.Context, dir types.Directory, name string) (bool, error)
	Write(ctx context.Context, dir types.Directory, name string, header, row []string) error
}

// Instruments resolves the question set for a role.
type Instruments interface {
	For(role types.Role) (types.Instrument, error)
}

// Config wires a Controller.
type Config struct {
	Store       Recorder
	Picker      types.DirectoryPicker
	Instruments Instruments

	// OnComplete is called once per completed flow with the respondent's
	// user ID, after a successful write or when a record already exists.
	OnComplete func(userID string)

	Logger *zap.Logger
}

// Controller is the state machine for one respondent session. It is not
// safe for concurrent use; callers serialize access per session.
type Controller struct {
	cfg Config
	log *zap.Logger

	state      State
	userID     string
	role       types.Role
	dir        types.Directory
	instrument types.Instrument
	responses  *types.Responses
	err        error
}

// New returns a Controller in AwaitingRoleAndLocation with the speaker
// role preselected.
func New(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cfg:   cfg,
		log:   log,
		state: AwaitingRoleAndLocation,
		role:  types.RoleSpeaker,
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// UserID returns the entered user ID.
func (c *Controller) UserID() string { return c.userID }

// Role returns the selected role.
func (c *Controller) Role() types.Role { return c.role }

// Directory returns the selected folder, or nil.
func (c *Controller) Directory() types.Directory { return c.dir }

// Instrument returns the active instrument. It is set once the flow leaves
// AwaitingRoleAndLocation.
func (c *Controller) Instrument() types.Instrument { return c.instrument }

// Responses returns the answers collected so far, or nil before
// Collecting.
func (c *Controller) Responses() *types.Responses { return c.responses }

// Err returns the most recent error, or nil. Each operation clears it
// before running.
func (c *Controller) Err() error { return c.err }

// FileName returns the record file name for the current user and role.
func (c *Controller) FileName() string {
	in, err := c.cfg.Instruments.For(c.role)
	if err != nil {
		return ""
	}
	return in.FileName(c.userID)
}

// Advisory returns ErrUnsupportedEnvironment when the picker reports that
// it cannot provide writable folders. The flow stays usable; writes may
// fail.
func (c *Controller) Advisory() error {
	if c.cfg.Picker == nil {
		return types.ErrUnsupportedEnvironment
	}
	if r, ok := c.cfg.Picker.(types.CapabilityReporter); ok && !r.Supported() {
		return types.ErrUnsupportedEnvironment
	}
	return nil
}

// SetUserID records the respondent's ID. Only allowed before the flow
// begins.
func (c *Controller) SetUserID(id string) error {
	c.err = nil
	if c.state != AwaitingRoleAndLocation {
		return c.fail(fmt.Errorf("set user ID in %s: %w", c.state, types.ErrInvalidTransition))
	}
	c.userID = id
	return nil
}

// SetRole selects the questionnaire variant. Only allowed before the flow
// begins.
func (c *Controller) SetRole(role types.Role) error {
	c.err = nil
	if c.state != AwaitingRoleAndLocation {
		return c.fail(fmt.Errorf("set role in %s: %w", c.state, types.ErrInvalidTransition))
	}
	if !role.Valid() {
		return c.fail(types.ErrRoleUnknown)
	}
	c.role = role
	return nil
}

// SelectDirectory asks the picker for the folder named by choice and
// replaces the held handle on success. A failed selection keeps the
// previous handle and the entered user ID. Selecting a folder never
// re-runs the existence check.
func (c *Controller) SelectDirectory(ctx context.Context, choice string) error {
	c.err = nil
	if !c.state.canSelectDirectory() {
		return c.fail(fmt.Errorf("select directory in %s: %w", c.state, types.ErrInvalidTransition))
	}
	if c.cfg.Picker == nil {
		return c.fail(fmt.Errorf("%w: %w", types.ErrDirectorySelection, types.ErrUnsupportedEnvironment))
	}
	dir, err := c.cfg.Picker.PickDirectory(ctx, choice)
	if err != nil {
		c.log.Debug("directory selection failed", zap.Error(err))
		return c.fail(err)
	}
	c.dir = dir
	c.log.Debug("directory selected", zap.String("directory", dir.Name()))
	return nil
}

// UseDirectory installs an already opened folder, with the same state
// rules as SelectDirectory.
func (c *Controller) UseDirectory(dir types.Directory) error {
	c.err = nil
	if !c.state.canSelectDirectory() {
		return c.fail(fmt.Errorf("use directory in %s: %w", c.state, types.ErrInvalidTransition))
	}
	if dir == nil {
		return c.fail(types.ErrDirectoryRequired)
	}
	c.dir = dir
	return nil
}

// Begin validates the user ID and folder, then checks for an existing
// record. With a record present the session completes immediately and
// the questionnaire is never shown; otherwise it moves to Collecting.
func (c *Controller) Begin(ctx context.Context) error {
	c.err = nil
	if c.state != AwaitingRoleAndLocation {
		return c.fail(fmt.Errorf("begin in %s: %w", c.state, types.ErrInvalidTransition))
	}
	if strings.TrimSpace(c.userID) == "" {
		return c.fail(types.ErrUserIDRequired)
	}
	if c.dir == nil {
		return c.fail(types.ErrDirectoryRequired)
	}
	in, err := c.cfg.Instruments.For(c.role)
	if err != nil {
		return c.fail(err)
	}

	c.state = CheckingExisting
	name := in.FileName(c.userID)
	exists, err := c.cfg.Store.Exists(ctx, c.dir, name)
	if err != nil {
		c.state = AwaitingRoleAndLocation
		return c.fail(err)
	}

	c.instrument = in
	if exists {
		c.state = AlreadyComplete
		c.log.Info("record already exists",
			zap.String("user_id", c.userID),
			zap.String("role", c.role.String()),
			zap.String("file", name))
		c.complete()
		return nil
	}

	c.responses = types.NewResponses(in)
	c.state = Collecting
	return nil
}

// Answer records one answer while collecting.
func (c *Controller) Answer(questionID string, value types.Likert) error {
	c.err = nil
	if c.state != Collecting {
		return c.fail(fmt.Errorf("answer in %s: %w", c.state, types.ErrInvalidTransition))
	}
	if err := c.responses.SetAnswer(questionID, value); err != nil {
		return c.fail(fmt.Errorf("%s: %w", questionID, err))
	}
	return nil
}

// Submit writes the record once every question is answered. An incomplete
// set is rejected without touching storage. A storage failure returns the
// session to Collecting with all answers kept so the respondent can retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.err = nil
	if c.state != Collecting {
		return c.fail(fmt.Errorf("submit in %s: %w", c.state, types.ErrInvalidTransition))
	}
	if missing := c.responses.Missing(); len(missing) > 0 {
		return c.fail(fmt.Errorf("%w (%d unanswered)", types.ErrIncomplete, len(missing)))
	}

	c.state = Submitting
	name := c.instrument.FileName(c.userID)
	err := c.cfg.Store.Write(ctx, c.dir, name, c.instrument.Header(), c.responses.ToRow(c.userID))
	if err != nil {
		c.state = Collecting
		return c.fail(err)
	}

	c.state = Done
	c.log.Info("responses saved",
		zap.String("user_id", c.userID),
		zap.String("role", c.role.String()),
		zap.String("file", name))
	c.complete()
	return nil
}

// Restart returns a finished session to AwaitingRoleAndLocation for the
// next respondent. The folder and role are kept; the user ID and answers
// are cleared.
func (c *Controller) Restart() error {
	c.err = nil
	if !c.state.Complete() {
		return c.fail(fmt.Errorf("restart in %s: %w", c.state, types.ErrInvalidTransition))
	}
	c.state = AwaitingRoleAndLocation
	c.userID = ""
	c.instrument = types.Instrument{}
	c.responses = nil
	return nil
}

func (c *Controller) complete() {
	if c.cfg.OnComplete != nil {
		c.cfg.OnComplete(c.userID)
	}
}

func (c *Controller) fail(err error) error {
	c.err = err
	return err
}
