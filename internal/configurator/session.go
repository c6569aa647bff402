// Package configurator implements the four-stage wizard that binds tags of an
// uploaded feed to the store's internal category, product and param fields.
package configurator

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/sampler"
)

var (
	// ErrUnknownElement is returned when an id is not offered by the current card
	ErrUnknownElement = errors.New("unknown element")
	// ErrIncompleteStage is returned when advancing with unconnected left elements
	ErrIncompleteStage = errors.New("stage has unconnected fields")
	// ErrNoNextStage is returned by Next on the final stage
	ErrNoNextStage = errors.New("already on the final stage")
	// ErrNoPreviousStage is returned by Back on the first stage
	ErrNoPreviousStage = errors.New("already on the first stage")
	// ErrNotFinalStage is returned by Complete before the final stage
	ErrNotFinalStage = errors.New("wizard is not on the final stage")
)

const attributeSuffix = "-attribute"

// maxWrapperDepth bounds how many single-child wrapper tags are skipped
const maxWrapperDepth = 8

// SessionOptions configures a MappingSession
type SessionOptions struct {
	Rand            *rand.Rand
	Now             func() time.Time
	AttributePrefix string
}

// candidate is a right-hand element together with the value path it selects
type candidate struct {
	desc      TagDescriptor
	path      mapping.FieldPath
	attribute bool
}

// itemContext is the repeated element a stage's fields are read from
type itemContext struct {
	chain []string // tags from the anchor tag down to the item
	item  string
}

// MappingSession holds the state of one wizard run. It is owned by a single
// caller and is not safe for concurrent use.
type MappingSession struct {
	root       string
	inventory  xml.Inventory
	document   xml.Document
	attrPrefix string
	rng        *rand.Rand
	now        func() time.Time

	current        int
	showAttributes bool
	connections    map[StageID][]mapping.Connection
	saved          map[StageID][]mapping.Connection
	pendingLeft    string
	pendingRight   string
}

// NewSession starts a wizard over a parsed feed
func NewSession(feed *xml.Feed, opts SessionOptions) *MappingSession {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AttributePrefix == "" {
		opts.AttributePrefix = xml.DefaultOptions().AttributePrefix
	}
	return &MappingSession{
		root:        feed.Root,
		inventory:   feed.Inventory,
		document:    feed.Document,
		attrPrefix:  opts.AttributePrefix,
		rng:         opts.Rand,
		now:         opts.Now,
		connections: make(map[StageID][]mapping.Connection),
		saved:       make(map[StageID][]mapping.Connection),
	}
}

// Stage returns the id of the current stage
func (s *MappingSession) Stage() StageID {
	return stages[s.current].id
}

// IsLast reports whether the current stage is the final one
func (s *MappingSession) IsLast() bool {
	return s.current == len(stages)-1
}

// Card returns the current stage with its visible right-hand candidates
func (s *MappingSession) Card() ConnectionCard {
	def := stages[s.current]
	right := make([]TagDescriptor, 0)
	for _, c := range s.candidates(def.id) {
		if c.attribute && !s.showAttributes {
			continue
		}
		right = append(right, c.desc)
	}
	return ConnectionCard{
		ID:            def.id,
		Ref:           def.ref,
		LeftElements:  slices.Clone(def.left),
		RightElements: right,
	}
}

// Connections returns the connections of the current stage
func (s *MappingSession) Connections() []mapping.Connection {
	return slices.Clone(s.connections[s.Stage()])
}

// Pending returns the not yet paired left and right picks
func (s *MappingSession) Pending() (left, right string) {
	return s.pendingLeft, s.pendingRight
}

// ShowAttributes reports whether attribute candidates are offered
func (s *MappingSession) ShowAttributes() bool {
	return s.showAttributes
}

// SelectLeft records a pick of an internal field. When a right pick is
// pending the pair is connected; the returned connection is nil otherwise or
// when the field is already connected.
func (s *MappingSession) SelectLeft(id string) (*mapping.Connection, error) {
	if !slices.ContainsFunc(stages[s.current].left, func(d TagDescriptor) bool { return d.ID == id }) {
		return nil, fmt.Errorf("%w: left %q", ErrUnknownElement, id)
	}
	s.pendingLeft = id
	return s.tryConnect(), nil
}

// SelectRight records a pick of a feed tag or attribute
func (s *MappingSession) SelectRight(id string) (*mapping.Connection, error) {
	c, ok := s.findCandidate(s.Stage(), id)
	if !ok || (c.attribute && !s.showAttributes) {
		return nil, fmt.Errorf("%w: right %q", ErrUnknownElement, id)
	}
	s.pendingRight = id
	return s.tryConnect(), nil
}

// Connect selects left then right. It returns nil without error when the
// left field already has a connection.
func (s *MappingSession) Connect(left, right string) (*mapping.Connection, error) {
	if _, err := s.SelectLeft(left); err != nil {
		return nil, err
	}
	conn, err := s.SelectRight(right)
	if err != nil {
		s.pendingLeft = ""
		return nil, err
	}
	return conn, nil
}

func (s *MappingSession) tryConnect() *mapping.Connection {
	if s.pendingLeft == "" || s.pendingRight == "" {
		return nil
	}
	left, right := s.pendingLeft, s.pendingRight
	s.pendingLeft, s.pendingRight = "", ""

	stage := s.Stage()
	for _, c := range s.connections[stage] {
		if c.Start == left {
			return nil
		}
	}

	conn := mapping.Connection{Start: left, End: right, Color: s.pickColor(stage)}
	s.connections[stage] = append(s.connections[stage], conn)
	return &conn
}

// pickColor returns a random palette color unused on the stage, or any
// palette color once all are taken
func (s *MappingSession) pickColor(stage StageID) string {
	used := make(map[string]bool)
	for _, c := range s.connections[stage] {
		used[c.Color] = true
	}
	free := make([]string, 0, len(Palette))
	for _, color := range Palette {
		if !used[color] {
			free = append(free, color)
		}
	}
	if len(free) == 0 {
		free = Palette
	}
	return free[s.rng.Intn(len(free))]
}

// Disconnect removes the connection of a left field on the current stage
func (s *MappingSession) Disconnect(left string) bool {
	stage := s.Stage()
	before := len(s.connections[stage])
	s.connections[stage] = slices.DeleteFunc(s.connections[stage], func(c mapping.Connection) bool {
		return c.Start == left
	})
	return len(s.connections[stage]) != before
}

// ToggleAttributes shows or hides attribute candidates. Hiding them removes
// every connection that ends on an attribute, on all stages including the
// saved ones, and returns how many were removed.
func (s *MappingSession) ToggleAttributes(show bool) int {
	s.showAttributes = show
	if show {
		return 0
	}
	if strings.HasSuffix(s.pendingRight, attributeSuffix) {
		s.pendingRight = ""
	}

	// Candidate lookups read earlier stages, so collect before pruning
	attrs := make(map[StageID]map[string]bool, len(stages))
	for _, def := range stages {
		ids := make(map[string]bool)
		for _, c := range s.candidates(def.id) {
			if c.attribute {
				ids[c.desc.ID] = true
			}
		}
		attrs[def.id] = ids
	}

	removed := 0
	for _, def := range stages {
		isAttr := func(c mapping.Connection) bool { return attrs[def.id][c.End] }
		before := len(s.connections[def.id])
		s.connections[def.id] = slices.DeleteFunc(s.connections[def.id], isAttr)
		removed += before - len(s.connections[def.id])
		if saved, ok := s.saved[def.id]; ok {
			s.saved[def.id] = slices.DeleteFunc(saved, isAttr)
		}
	}
	return removed
}

// CanAdvance reports whether every left element of the current stage is connected
func (s *MappingSession) CanAdvance() bool {
	stage := s.Stage()
	for _, left := range stages[s.current].left {
		if !slices.ContainsFunc(s.connections[stage], func(c mapping.Connection) bool { return c.Start == left.ID }) {
			return false
		}
	}
	return true
}

// Next saves the current stage's connections and moves forward
func (s *MappingSession) Next() error {
	if s.IsLast() {
		return ErrNoNextStage
	}
	if !s.CanAdvance() {
		return fmt.Errorf("%w: %s", ErrIncompleteStage, s.Stage())
	}
	s.saved[s.Stage()] = slices.Clone(s.connections[s.Stage()])
	s.current++
	s.pendingLeft, s.pendingRight = "", ""
	s.pruneStale(s.Stage())
	return nil
}

// Back moves to the previous stage, dropping pending picks only
func (s *MappingSession) Back() error {
	if s.current == 0 {
		return ErrNoPreviousStage
	}
	s.current--
	s.pendingLeft, s.pendingRight = "", ""
	return nil
}

// pruneStale drops connections whose right element is no longer offered,
// which happens when an earlier stage was re-wired
func (s *MappingSession) pruneStale(stage StageID) {
	s.connections[stage] = slices.DeleteFunc(s.connections[stage], func(c mapping.Connection) bool {
		_, ok := s.findCandidate(stage, c.End)
		return !ok
	})
}

func (s *MappingSession) findCandidate(stage StageID, id string) (candidate, bool) {
	for _, c := range s.candidates(stage) {
		if c.desc.ID == id {
			return c, true
		}
	}
	return candidate{}, false
}

func stageIndex(id StageID) int {
	for i, def := range stages {
		if def.id == id {
			return i
		}
	}
	return -1
}

// candidates derives the right-hand elements of a stage from its parent's
// connection for the field named like the stage
func (s *MappingSession) candidates(stage StageID) []candidate {
	if stage == StageStart {
		return s.containerCandidates()
	}
	ctx, ok := s.itemFor(stage)
	if !ok {
		return nil
	}
	return s.itemCandidates(ctx.item)
}

// containerCandidates offers every tag below the root that holds children or
// attributes, in breadth-first order
func (s *MappingSession) containerCandidates() []candidate {
	var out []candidate
	seen := map[string]bool{s.root: true}
	queue := []string{s.root}
	for len(queue) > 0 {
		tag := queue[0]
		queue = queue[1:]
		for _, child := range s.inventory.Children(tag) {
			if seen[child] {
				continue
			}
			seen[child] = true
			queue = append(queue, child)
			info := s.inventory[child]
			if len(info.Tags) > 0 || len(info.Attributes) > 0 {
				out = append(out, candidate{desc: TagDescriptor{ID: child, Name: child}, path: mapping.FieldPath{Tag: child}})
			}
		}
	}
	return out
}

// itemCandidates offers the item's own text and attributes, its child tags
// and the child tags' attributes
func (s *MappingSession) itemCandidates(item string) []candidate {
	out := []candidate{{desc: TagDescriptor{ID: item, Name: item}}}
	seen := map[string]bool{item: true}

	add := func(c candidate) {
		if seen[c.desc.ID] {
			return
		}
		seen[c.desc.ID] = true
		out = append(out, c)
	}
	attr := func(owner, tag, name string) candidate {
		return candidate{
			desc:      TagDescriptor{ID: owner + "-" + name + attributeSuffix, Name: owner + "-" + name},
			path:      mapping.FieldPath{Tag: tag, Attribute: name},
			attribute: true,
		}
	}

	for _, a := range s.inventory.Attributes(item) {
		add(attr(item, "", a))
	}
	for _, child := range s.inventory.Children(item) {
		add(candidate{desc: TagDescriptor{ID: child, Name: child}, path: mapping.FieldPath{Tag: child}})
		for _, a := range s.inventory.Attributes(child) {
			add(attr(child, child, a))
		}
	}
	return out
}

// itemFor resolves which repeated element a stage reads from
func (s *MappingSession) itemFor(stage StageID) (itemContext, bool) {
	def := stages[stageIndex(stage)]
	anchor, ok := s.connectedPath(def.ref, string(stage))
	if !ok || anchor.IsAttribute() || anchor.Tag == "" {
		return itemContext{}, false
	}
	chain := s.unwrap(anchor.Tag)
	return itemContext{chain: chain, item: chain[len(chain)-1]}, true
}

// connectedPath returns the value path a field of stage is connected to
func (s *MappingSession) connectedPath(stage StageID, field string) (mapping.FieldPath, bool) {
	for _, c := range s.connections[stage] {
		if c.Start != field {
			continue
		}
		cand, ok := s.findCandidate(stage, c.End)
		if !ok {
			return mapping.FieldPath{}, false
		}
		return cand.path, true
	}
	return mapping.FieldPath{}, false
}

// unwrap descends through wrapper tags that hold exactly one child tag and
// no attributes, e.g. categories -> category
func (s *MappingSession) unwrap(tag string) []string {
	chain := []string{tag}
	for i := 0; i < maxWrapperDepth; i++ {
		info := s.inventory[tag]
		if len(info.Tags) != 1 || len(info.Attributes) != 0 {
			break
		}
		tag = info.Tags[0]
		chain = append(chain, tag)
	}
	return chain
}

// Complete saves the final stage and compiles all saved connections into a
// new immutable configuration
func (s *MappingSession) Complete() (*mapping.Configuration, error) {
	if !s.IsLast() {
		return nil, ErrNotFinalStage
	}
	if !s.CanAdvance() {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteStage, s.Stage())
	}
	s.saved[s.Stage()] = slices.Clone(s.connections[s.Stage()])
	return s.compile()
}

func (s *MappingSession) compile() (*mapping.Configuration, error) {
	cfg := &mapping.Configuration{
		ID:              uuid.NewString(),
		CreatedAt:       s.now(),
		Root:            s.root,
		AttributePrefix: s.attrPrefix,
		Connections:     make(map[string][]mapping.Connection, len(stages)),
	}
	for _, def := range stages {
		saved, ok := s.saved[def.id]
		if !ok {
			return nil, fmt.Errorf("%w: stage %s was never saved", mapping.ErrInvalidConfiguration, def.id)
		}
		cfg.Connections[string(def.id)] = slices.Clone(saved)
	}

	var err error
	if cfg.Categories, err = s.compileEntity(StageCategories); err != nil {
		return nil, err
	}
	if cfg.Products, err = s.compileEntity(StageProducts); err != nil {
		return nil, err
	}

	ctx, ok := s.itemFor(StageParams)
	if !ok {
		return nil, fmt.Errorf("%w: params must map to a tag", mapping.ErrInvalidConfiguration)
	}
	fields, err := s.compileFields(StageParams)
	if err != nil {
		return nil, err
	}
	cfg.Params = mapping.ParamMapping{
		Tag:   strings.Join(ctx.chain, "."),
		Name:  fields[mapping.FieldParamName],
		Value: fields[mapping.FieldParamValue],
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *MappingSession) compileEntity(stage StageID) (mapping.EntityMapping, error) {
	ctx, ok := s.itemFor(stage)
	if !ok {
		return mapping.EntityMapping{}, fmt.Errorf("%w: %s must map to a tag", mapping.ErrInvalidConfiguration, stage)
	}
	path := s.inventory.PathTo(s.root, ctx.chain[0])
	if path == nil {
		return mapping.EntityMapping{}, fmt.Errorf("%w: %s not reachable from %s", mapping.ErrInvalidConfiguration, ctx.chain[0], s.root)
	}
	path = append(path, ctx.chain[1:]...)

	fields, err := s.compileFields(stage)
	if err != nil {
		return mapping.EntityMapping{}, err
	}
	return mapping.EntityMapping{
		Path:   strings.Join(path, "."),
		Item:   ctx.item,
		Fields: fields,
	}, nil
}

func (s *MappingSession) compileFields(stage StageID) (map[string]mapping.FieldPath, error) {
	fields := make(map[string]mapping.FieldPath)
	for _, c := range s.saved[stage] {
		cand, ok := s.findCandidate(stage, c.End)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s points to unknown %q", mapping.ErrInvalidConfiguration, stage, c.Start, c.End)
		}
		fields[c.Start] = cand.path
	}
	return fields, nil
}

// CompleteAndSample compiles the configuration and previews it against the
// feed the session was started with
func (s *MappingSession) CompleteAndSample(n int) (*mapping.Configuration, *sampler.FeedSample, error) {
	cfg, err := s.Complete()
	if err != nil {
		return nil, nil, err
	}
	sample, err := sampler.Sample(cfg, s.document, n)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sample feed: %w", err)
	}
	return cfg, sample, nil
}
