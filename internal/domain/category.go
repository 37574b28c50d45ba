package domain

const categoryNameMax = 255

// Category groups recipes within an account. Categories form a tree through
// an optional parent; ParentID 0 marks a root category.
type Category struct {
	base
	name          string
	accountID     int64
	typeID        int64
	parentID      int64
	subcategories []*Category
}

// CategoryState is the persisted form of a Category.
type CategoryState struct {
	Record
	Name      string `json:"name"`
	AccountID int64  `json:"account_id"`
	TypeID    int64  `json:"type_id"`
	ParentID  int64  `json:"parent_id,omitempty"`
}

// NewCategory validates and creates an unpersisted Category.
func NewCategory(name string, accountID, typeID, parentID int64) (*Category, error) {
	name, err := checkText("name", name, 1, categoryNameMax)
	if err != nil {
		return nil, err
	}
	if err := checkID("accountId", accountID); err != nil {
		return nil, err
	}
	if err := checkID("typeId", typeID); err != nil {
		return nil, err
	}
	if parentID < 0 {
		return nil, invalid("parentId", "Deve ser um identificador válido.")
	}

	return &Category{
		base:      newBase(),
		name:      name,
		accountID: accountID,
		typeID:    typeID,
		parentID:  parentID,
	}, nil
}

// LoadCategory rehydrates a Category without validation.
func LoadCategory(s CategoryState) *Category {
	return &Category{
		base:      loadBase(s.Record),
		name:      s.Name,
		accountID: s.AccountID,
		typeID:    s.TypeID,
		parentID:  s.ParentID,
	}
}

func (c *Category) Name() string     { return c.name }
func (c *Category) AccountID() int64 { return c.accountID }
func (c *Category) TypeID() int64    { return c.typeID }
func (c *Category) ParentID() int64  { return c.parentID }

// HasParent reports whether the category is nested under another one.
func (c *Category) HasParent() bool {
	return c.parentID != 0
}

// Rename changes the name. Returns false when unchanged.
func (c *Category) Rename(name string) (bool, error) {
	name, err := checkText("name", name, 1, categoryNameMax)
	if err != nil {
		return false, err
	}
	if name == c.name {
		return false, nil
	}
	c.name = name
	c.touch()
	return true, nil
}

// ChangeType moves the category to another CategoryType.
func (c *Category) ChangeType(typeID int64) (bool, error) {
	if err := checkID("typeId", typeID); err != nil {
		return false, err
	}
	if typeID == c.typeID {
		return false, nil
	}
	c.typeID = typeID
	c.touch()
	return true, nil
}

// ChangeParent re-parents the category. 0 makes it a root category.
// Only direct self-reference is rejected here; deeper cycles need the tree
// and are checked by the caller.
func (c *Category) ChangeParent(parentID int64) (bool, error) {
	if parentID < 0 {
		return false, invalid("parentId", "Deve ser um identificador válido.")
	}
	if parentID != 0 && parentID == c.id {
		return false, invalid("parentId", "Uma categoria não pode ser a sua própria categoria pai.")
	}
	if parentID == c.parentID {
		return false, nil
	}
	c.parentID = parentID
	c.touch()
	return true, nil
}

// UpdateDetails applies name, type and parent together. Nothing is applied
// unless every value is valid.
func (c *Category) UpdateDetails(name string, typeID, parentID int64) (bool, error) {
	name, err := checkText("name", name, 1, categoryNameMax)
	if err != nil {
		return false, err
	}
	if err := checkID("typeId", typeID); err != nil {
		return false, err
	}
	if parentID < 0 || (parentID != 0 && parentID == c.id) {
		return false, invalid("parentId", "Uma categoria não pode ser a sua própria categoria pai.")
	}

	renamed, _ := c.Rename(name)
	retyped, _ := c.ChangeType(typeID)
	moved, _ := c.ChangeParent(parentID)
	return renamed || retyped || moved, nil
}

// Deactivate soft-deletes the category. Returns false when already inactive.
func (c *Category) Deactivate() bool {
	return c.deactivate()
}

// AttachSubcategories sets the read-only view of direct children.
func (c *Category) AttachSubcategories(children []*Category) {
	c.subcategories = append([]*Category(nil), children...)
}

// Subcategories returns a copy of the attached children.
func (c *Category) Subcategories() []*Category {
	return append([]*Category(nil), c.subcategories...)
}

// State returns the persisted form.
func (c *Category) State() CategoryState {
	return CategoryState{
		Record:    c.record(),
		Name:      c.name,
		AccountID: c.accountID,
		TypeID:    c.typeID,
		ParentID:  c.parentID,
	}
}
