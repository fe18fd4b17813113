package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/schema"
	"docmapper/src/settings"
)

type Point struct {
	X float64 `doc:"x,number"`
	Y float64 `doc:"y,number"`
}

func NewPoint(x, y *float64) *Point {
	p := &Point{}
	if x != nil {
		p.X = *x
	}
	if y != nil {
		p.Y = *y
	}
	return p
}

func (Point) DocBuilder() schema.Builder { return schema.Constructor(NewPoint, "x", "y") }

type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)

func (s *Status) UnmarshalText(text []byte) error {
	switch Status(text) {
	case "", StatusActive, StatusRetired:
		*s = Status(text)
		return nil
	default:
		return fmt.Errorf("unknown status %q", text)
	}
}

type Level int

const (
	LevelJunior Level = iota
	LevelSenior
)

var levelNames = []string{"junior", "senior"}

func (l Level) String() string { return levelNames[l] }

func (l *Level) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if name == string(text) {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", text)
}

type Address struct {
	Street string `doc:"street,string"`
	City   string `doc:"city,string"`
}

func NewAddress(street, city *string) Address {
	a := Address{}
	if street != nil {
		a.Street = *street
	}
	if city != nil {
		a.City = *city
	}
	return a
}

func (Address) DocBuilder() schema.Builder { return schema.Constructor(NewAddress, "street", "city") }

type Person struct {
	ID       primitive.ObjectID `doc:"_id,objectid"`
	Name     string             `doc:"name,string,index"`
	Age      *int               `doc:"age,number"`
	Tags     []string           `doc:"tags,array:string"`
	Status   Status             `doc:"status,enum"`
	Level    Level              `doc:"level,enum"`
	Home     *Address           `doc:"home,object"`
	Manager  *Person            `doc:"manager,reference"`
	Avatar   []byte             `doc:"avatar,binary"`
	Token    uuid.UUID          `doc:"token,binary,index:hash,unique"`
	Nickname string             `doc:"nickname,string"`
	Scratch  string
}

var errNegativeAge = errors.New("age must not be negative")

// NewPerson takes its parameters in a different order than the fields.
func NewPerson(age *int, name *string, tags []string, home *Address) (*Person, error) {
	if age != nil && *age < 0 {
		return nil, errNegativeAge
	}
	p := &Person{Age: age, Tags: tags, Home: home}
	if name != nil {
		p.Name = *name
	}
	return p, nil
}

func (*Person) DocBuilder() schema.Builder {
	return schema.Constructor(NewPerson, "age", "name", "tags", "home")
}

type Node struct {
	Value string `doc:"value,string"`
	Next  *Node  `doc:"next,object"`
}

func NewNode(value *string, next *Node) *Node {
	n := &Node{Next: next}
	if value != nil {
		n.Value = *value
	}
	return n
}

func (Node) DocBuilder() schema.Builder { return schema.Constructor(NewNode, "value", "next") }

type Fragile struct {
	Name string `doc:"name,string"`
}

func NewFragile(name *string) *Fragile {
	return &Fragile{Name: *name}
}

func (Fragile) DocBuilder() schema.Builder { return schema.Constructor(NewFragile, "name") }

type Vanishing struct {
	Name string `doc:"name,string"`
}

func NewVanishing(*string) *Vanishing { return nil }

func (Vanishing) DocBuilder() schema.Builder { return schema.Constructor(NewVanishing, "name") }

type Counter struct {
	Small int8   `doc:"small,number"`
	Big   uint64 `doc:"big,number"`
}

func (Counter) DocBuilder() schema.Builder {
	return schema.Constructor(func(small *int8, big *uint64) Counter {
		c := Counter{}
		if small != nil {
			c.Small = *small
		}
		if big != nil {
			c.Big = *big
		}
		return c
	}, "small", "big")
}

type Mistyped struct {
	A int    `doc:"a,string"`
	B string `doc:"b,number"`
	C bool   `doc:"c,boolean"`
}

func NewMistyped(a *int) *Mistyped { return &Mistyped{} }

type Undeclared struct {
	Name string `doc:"name,string"`
}

type Team struct {
	Lead    Person    `doc:"lead,object"`
	Members []*Person `doc:"members,array:reference"`
}

func NewTeam(lead *Person, members []*Person) *Team {
	t := &Team{Members: members}
	if lead != nil {
		t.Lead = *lead
	}
	return t
}

func (Team) DocBuilder() schema.Builder { return schema.Constructor(NewTeam, "lead", "members") }

// sequenceProvider mints predictable ids.
type sequenceProvider struct {
	mu   sync.Mutex
	next byte
}

func (s *sequenceProvider) NewObjectID() primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	var id primitive.ObjectID
	id[len(id)-1] = s.next
	return id
}

func newTestEngine() *Engine {
	return NewEngine(settings.Defaults(), nil).WithIdentityProvider(&sequenceProvider{})
}

func ptr[T any](v T) *T { return &v }
