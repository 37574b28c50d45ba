package domain

// DefaultSubscriptionLevel is assigned when no subscription is given.
const DefaultSubscriptionLevel = "Free"

const (
	accountNameMax       = 255
	subscriptionLevelMax = 50
)

// Account is the tenant boundary. Users, categories and recipes belong to
// exactly one account by foreign id.
type Account struct {
	base
	name              string
	subscriptionLevel string
	creatorUserID     int64
}

// AccountState is the persisted form of an Account.
type AccountState struct {
	Record
	Name              string `json:"name"`
	SubscriptionLevel string `json:"subscription_level"`
	CreatorUserID     int64  `json:"creator_user_id"`
}

// NewAccount validates and creates an unpersisted Account.
// An empty subscription defaults to "Free". creatorUserID may be 0 when the
// creator is registered in the same transaction; see AssignCreator.
func NewAccount(name, subscriptionLevel string, creatorUserID int64) (*Account, error) {
	name, err := checkText("name", name, 1, accountNameMax)
	if err != nil {
		return nil, err
	}
	if subscriptionLevel == "" {
		subscriptionLevel = DefaultSubscriptionLevel
	}
	subscriptionLevel, err = checkText("subscriptionLevel", subscriptionLevel, 1, subscriptionLevelMax)
	if err != nil {
		return nil, err
	}
	if creatorUserID < 0 {
		return nil, invalid("creatorUserId", "Deve ser um identificador válido.")
	}

	return &Account{
		base:              newBase(),
		name:              name,
		subscriptionLevel: subscriptionLevel,
		creatorUserID:     creatorUserID,
	}, nil
}

// LoadAccount rehydrates an Account from storage without validation.
func LoadAccount(s AccountState) *Account {
	return &Account{
		base:              loadBase(s.Record),
		name:              s.Name,
		subscriptionLevel: s.SubscriptionLevel,
		creatorUserID:     s.CreatorUserID,
	}
}

// Name returns the account name.
func (a *Account) Name() string { return a.name }

// SubscriptionLevel returns the subscription level.
func (a *Account) SubscriptionLevel() string { return a.subscriptionLevel }

// CreatorUserID returns the id of the user who created the account (0 until assigned).
func (a *Account) CreatorUserID() int64 { return a.creatorUserID }

// Rename changes the account name. Returns false when the name is unchanged.
func (a *Account) Rename(name string) (bool, error) {
	name, err := checkText("name", name, 1, accountNameMax)
	if err != nil {
		return false, err
	}
	if name == a.name {
		return false, nil
	}
	a.name = name
	a.touch()
	return true, nil
}

// ChangeSubscription changes the subscription level.
func (a *Account) ChangeSubscription(level string) (bool, error) {
	level, err := checkText("subscriptionLevel", level, 1, subscriptionLevelMax)
	if err != nil {
		return false, err
	}
	if level == a.subscriptionLevel {
		return false, nil
	}
	a.subscriptionLevel = level
	a.touch()
	return true, nil
}

// AssignCreator records the user who created the account. It may only be set once.
func (a *Account) AssignCreator(userID int64) error {
	if err := checkID("creatorUserId", userID); err != nil {
		return err
	}
	if a.creatorUserID != 0 && a.creatorUserID != userID {
		return refused("account.assignCreator", "O criador da conta já foi definido.")
	}
	if a.creatorUserID == userID {
		return nil
	}
	a.creatorUserID = userID
	a.touch()
	return nil
}

// Deactivate soft-deletes the account. Returns false when already inactive.
func (a *Account) Deactivate() bool {
	return a.deactivate()
}

// State returns the persisted form.
func (a *Account) State() AccountState {
	return AccountState{
		Record:            a.record(),
		Name:              a.name,
		SubscriptionLevel: a.subscriptionLevel,
		CreatorUserID:     a.creatorUserID,
	}
}
