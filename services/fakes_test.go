package services

import (
	"context"
	"sort"
	"sync"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
)

// In-memory fakes for the repository interfaces. They enforce the same
// constraints the postgres schema does (unique team codes, unique
// team/checkpoint checkin pairs, versioned timer row) so service tests
// exercise the real decision paths.

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Publish(eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

func (n *fakeNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.teams {
		if existing.TeamCode == team.TeamCode {
			return repositories.ErrTeamCodeConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) GetByCode(_ context.Context, code string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, team := range r.teams {
		if team.TeamCode == code {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(_ context.Context) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, *team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].TotalScore != teams[j].TotalScore {
			return teams[i].TotalScore > teams[j].TotalScore
		}
		return teams[i].Name < teams[j].Name
	})
	return teams, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	for id, existing := range r.teams {
		if id != team.ID && existing.TeamCode == team.TeamCode {
			return repositories.ErrTeamCodeConflict
		}
	}
	stored.Name = team.Name
	stored.Color = team.Color
	stored.TeamCode = team.TeamCode
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) AddPoints(_ context.Context, id int, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return 0, repositories.ErrTeamNotFound
	}
	team.TotalScore += delta
	return team.TotalScore, nil
}

func (r *fakeTeamRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams), nil
}

type fakeCheckpointRepo struct {
	mu          sync.Mutex
	nextID      int
	checkpoints map[int]*models.Checkpoint
}

func newFakeCheckpointRepo() *fakeCheckpointRepo {
	return &fakeCheckpointRepo{nextID: 1, checkpoints: make(map[int]*models.Checkpoint)}
}

func (r *fakeCheckpointRepo) Create(_ context.Context, cp *models.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp.ID = r.nextID
	r.nextID++
	copied := *cp
	r.checkpoints[cp.ID] = &copied
	return nil
}

func (r *fakeCheckpointRepo) GetByID(_ context.Context, id int) (*models.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.checkpoints[id]
	if !ok {
		return nil, repositories.ErrCheckpointNotFound
	}
	copied := *cp
	return &copied, nil
}

func (r *fakeCheckpointRepo) List(_ context.Context) ([]models.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkpoints := make([]models.Checkpoint, 0, len(r.checkpoints))
	for _, cp := range r.checkpoints {
		checkpoints = append(checkpoints, *cp)
	}
	sort.Slice(checkpoints, func(i, j int) bool { return checkpoints[i].ID < checkpoints[j].ID })
	return checkpoints, nil
}

func (r *fakeCheckpointRepo) Update(_ context.Context, cp *models.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkpoints[cp.ID]; !ok {
		return repositories.ErrCheckpointNotFound
	}
	copied := *cp
	r.checkpoints[cp.ID] = &copied
	return nil
}

func (r *fakeCheckpointRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkpoints[id]; !ok {
		return repositories.ErrCheckpointNotFound
	}
	delete(r.checkpoints, id)
	return nil
}

func (r *fakeCheckpointRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.checkpoints), nil
}

type pairKey struct {
	teamID       int
	checkpointID int
}

type fakeCheckinRepo struct {
	mu       sync.Mutex
	nextID   int
	checkins map[int]*models.Checkin
	pairs    map[pairKey]bool
}

func newFakeCheckinRepo() *fakeCheckinRepo {
	return &fakeCheckinRepo{
		nextID:   1,
		checkins: make(map[int]*models.Checkin),
		pairs:    make(map[pairKey]bool),
	}
}

func (r *fakeCheckinRepo) Create(_ context.Context, checkin *models.Checkin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{checkin.TeamID, checkin.CheckpointID}
	if r.pairs[key] {
		return repositories.ErrCheckinDuplicate
	}
	checkin.ID = r.nextID
	r.nextID++
	r.pairs[key] = true
	copied := *checkin
	r.checkins[checkin.ID] = &copied
	return nil
}

func (r *fakeCheckinRepo) GetByID(_ context.Context, id int) (*models.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkin, ok := r.checkins[id]
	if !ok {
		return nil, repositories.ErrCheckinNotFound
	}
	copied := *checkin
	return &copied, nil
}

func (r *fakeCheckinRepo) Exists(_ context.Context, teamID, checkpointID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[pairKey{teamID, checkpointID}], nil
}

func (r *fakeCheckinRepo) ListByTeam(_ context.Context, teamID int) ([]models.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkins := make([]models.Checkin, 0)
	for _, checkin := range r.checkins {
		if checkin.TeamID == teamID {
			checkins = append(checkins, *checkin)
		}
	}
	sort.Slice(checkins, func(i, j int) bool { return checkins[i].ID < checkins[j].ID })
	return checkins, nil
}

func (r *fakeCheckinRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkin, ok := r.checkins[id]
	if !ok {
		return repositories.ErrCheckinNotFound
	}
	delete(r.pairs, pairKey{checkin.TeamID, checkin.CheckpointID})
	delete(r.checkins, id)
	return nil
}

func (r *fakeCheckinRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.checkins), nil
}

type fakeLocationRepo struct {
	mu      sync.Mutex
	nextID  int
	latest  map[int]*models.TeamLocation
	history []models.TeamLocationSample
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{nextID: 1, latest: make(map[int]*models.TeamLocation)}
}

func (r *fakeLocationRepo) UpsertLatest(_ context.Context, loc *models.TeamLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.latest[loc.TeamID]
	if ok && !stored.RecordedAt.Before(loc.RecordedAt) {
		return nil // stale sample loses
	}
	copied := *loc
	r.latest[loc.TeamID] = &copied
	return nil
}

func (r *fakeLocationRepo) AppendHistory(_ context.Context, sample *models.TeamLocationSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sample.ID = r.nextID
	r.nextID++
	r.history = append(r.history, *sample)
	return nil
}

func (r *fakeLocationRepo) ListLatest(_ context.Context) ([]models.TeamLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	locations := make([]models.TeamLocation, 0, len(r.latest))
	for _, loc := range r.latest {
		locations = append(locations, *loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].TeamID < locations[j].TeamID })
	return locations, nil
}

func (r *fakeLocationRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = make(map[int]*models.TeamLocation)
	r.history = nil
	return nil
}

type fakeTimerRepo struct {
	mu    sync.Mutex
	timer models.EventTimer
}

func newFakeTimerRepo() *fakeTimerRepo {
	return &fakeTimerRepo{
		timer: models.EventTimer{ID: 1, Status: models.TimerNotStarted, Version: 1},
	}
}

func (r *fakeTimerRepo) Get(_ context.Context) (*models.EventTimer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := r.timer
	if r.timer.EndTime != nil {
		endTime := *r.timer.EndTime
		copied.EndTime = &endTime
	}
	return &copied, nil
}

func (r *fakeTimerRepo) UpdateWithVersion(_ context.Context, timer *models.EventTimer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if timer.Version != r.timer.Version {
		return repositories.ErrTimerConflict
	}
	r.timer = *timer
	if timer.EndTime != nil {
		endTime := *timer.EndTime
		r.timer.EndTime = &endTime
	}
	r.timer.Version++
	timer.Version++
	return nil
}

type fakeStaffRepo struct {
	mu     sync.Mutex
	nextID int
	staff  map[int]*models.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{nextID: 1, staff: make(map[int]*models.Staff)}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if existing.Name == staff.Name {
			return repositories.ErrStaffNameConflict
		}
	}
	staff.ID = r.nextID
	r.nextID++
	copied := *staff
	r.staff[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id int) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[id]
	if !ok {
		return nil, repositories.ErrStaffNotFound
	}
	copied := *staff
	return &copied, nil
}

func (r *fakeStaffRepo) GetByName(_ context.Context, name string) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, staff := range r.staff {
		if staff.Name == name {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, repositories.ErrStaffNotFound
}

func (r *fakeStaffRepo) List(_ context.Context) ([]models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]models.Staff, 0, len(r.staff))
	for _, staff := range r.staff {
		members = append(members, *staff)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}
