package bandit

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"myMealPlanner/business/recommend"
	"myMealPlanner/pkg/logger"
)

// Arm is the Beta-Bernoulli belief for one (user, recipe) pair. Alpha and
// beta only ever increment once the arm exists; pulls counts every
// feedback event and successes the positive ones.
type Arm struct {
	RecipeID   uint64                   `json:"recipe_id"`
	RecipeName string                   `json:"recipe_name"`
	Features   recommend.RecipeFeatures `json:"features"`

	Alpha      float64   `json:"alpha"`
	Beta       float64   `json:"beta"`
	Pulls      int       `json:"pulls"`
	Successes  int       `json:"successes"`
	LastPulled time.Time `json:"last_pulled"`
}

func (a *Arm) expectedReward() float64 {
	return a.Alpha / (a.Alpha + a.Beta)
}

// uncertainty is the standard deviation of the Beta posterior.
func (a *Arm) uncertainty() float64 {
	sum := a.Alpha + a.Beta
	variance := (a.Alpha * a.Beta) / (sum * sum * (sum + 1))
	return math.Sqrt(variance)
}

func (a *Arm) explorationValue() float64 {
	return 1.0 / math.Sqrt(float64(a.Pulls)+1)
}

// GlobalPrior is the shared seed belief for brand-new arms. Feedback
// decays it and nudges it toward the observed outcome, so it drifts with
// the population acceptance rate. Both sides stay strictly positive.
type GlobalPrior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

func defaultPrior() GlobalPrior {
	return GlobalPrior{Alpha: 1.0, Beta: 1.0}
}

func (p *GlobalPrior) observe(success bool, decay, step float64) {
	p.Alpha *= decay
	p.Beta *= decay
	if success {
		p.Alpha += step
	} else {
		p.Beta += step
	}
}

// SavedState is the JSON document exchanged with the persistence
// collaborator: the user's arms plus a snapshot of the global prior at
// save time.
type SavedState struct {
	GlobalPrior GlobalPrior `json:"global_prior"`
	Arms        []Arm       `json:"arms"`
}

// userState holds one user's arms. Mutations for a user are serialized
// by its mutex; different users proceed concurrently.
type userState struct {
	mu     sync.Mutex
	arms   map[uint64]*Arm
	loaded bool
}

// getOrCreate is compare-and-create: under the user's lock an existing
// arm always wins over a new one. New arms seed from the prior, floored
// at 1.0 per side to keep the Beta(>=1,>=1) starting invariant.
func (u *userState) getOrCreate(recipeID uint64, name string, feats recommend.RecipeFeatures, prior GlobalPrior) (*Arm, bool) {
	if arm, ok := u.arms[recipeID]; ok {
		return arm, false
	}
	arm := &Arm{
		RecipeID:   recipeID,
		RecipeName: name,
		Features:   feats,
		Alpha:      math.Max(prior.Alpha, 1.0),
		Beta:       math.Max(prior.Beta, 1.0),
	}
	u.arms[recipeID] = arm
	return arm, true
}

// Store is the in-memory bandit state: per-user arm maps plus the shared
// global prior, loaded from and flushed to the persistence collaborator.
// The in-memory copy stays authoritative when persistence fails.
type Store struct {
	repo StateRepository

	mu    sync.RWMutex
	users map[uint]*userState

	priorMu      sync.Mutex
	prior        GlobalPrior
	priorAdopted bool
}

func NewStore(repo StateRepository) *Store {
	return &Store{
		repo:  repo,
		users: make(map[uint]*userState),
		prior: defaultPrior(),
	}
}

// userArms returns the user's state, creating and lazily loading it on
// first touch. A load failure degrades to a cold empty state.
func (st *Store) userArms(ctx context.Context, userID uint) *userState {
	st.mu.RLock()
	us := st.users[userID]
	st.mu.RUnlock()

	if us == nil {
		st.mu.Lock()
		us = st.users[userID]
		if us == nil {
			us = &userState{arms: make(map[uint64]*Arm)}
			st.users[userID] = us
		}
		st.mu.Unlock()
	}

	st.ensureLoaded(ctx, userID, us)
	return us
}

func (st *Store) ensureLoaded(ctx context.Context, userID uint, us *userState) {
	us.mu.Lock()
	defer us.mu.Unlock()
	if us.loaded {
		return
	}
	us.loaded = true

	if st.repo == nil {
		return
	}

	saved, err := st.repo.GetState(ctx, userID)
	if err != nil {
		logger.Error("bandit_state_load_failed",
			"user_id", userID,
			"error", err,
		)
		BanditStateLoadFailuresTotal.Inc()
		return
	}
	if saved == nil {
		return
	}

	for i := range saved.Arms {
		arm := saved.Arms[i]
		us.arms[arm.RecipeID] = &arm
	}
	st.adoptPrior(saved.GlobalPrior)
}

// adoptPrior takes the first persisted prior snapshot seen this process;
// after that the in-memory prior is authoritative.
func (st *Store) adoptPrior(p GlobalPrior) {
	st.priorMu.Lock()
	defer st.priorMu.Unlock()
	if st.priorAdopted || p.Alpha <= 0 || p.Beta <= 0 {
		return
	}
	st.prior = p
	st.priorAdopted = true
}

func (st *Store) priorSnapshot() GlobalPrior {
	st.priorMu.Lock()
	defer st.priorMu.Unlock()
	return st.prior
}

func (st *Store) observeOutcome(success bool, decay, step float64) {
	st.priorMu.Lock()
	defer st.priorMu.Unlock()
	st.prior.observe(success, decay, step)
	st.priorAdopted = true
}

// flush persists one user's arms together with the current prior.
func (st *Store) flush(ctx context.Context, userID uint) error {
	if st.repo == nil {
		return nil
	}

	st.mu.RLock()
	us := st.users[userID]
	st.mu.RUnlock()
	if us == nil {
		return nil
	}

	saved := &SavedState{GlobalPrior: st.priorSnapshot()}

	us.mu.Lock()
	saved.Arms = make([]Arm, 0, len(us.arms))
	for _, arm := range us.arms {
		saved.Arms = append(saved.Arms, *arm)
	}
	us.mu.Unlock()

	// stable blob ordering, map iteration is not
	sort.Slice(saved.Arms, func(i, j int) bool {
		return saved.Arms[i].RecipeID < saved.Arms[j].RecipeID
	})

	return st.repo.SaveState(ctx, userID, saved)
}
