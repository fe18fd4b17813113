package main

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/schema"
)

// Contact is the sample type the driver converts.
type Contact struct {
	ID     primitive.ObjectID `doc:"_id,objectid"`
	Name   string             `doc:"name,string,index"`
	Email  string             `doc:"email,string,index:hash,unique"`
	Phones []string           `doc:"phones,array:string"`
	Office *Office            `doc:"office,object"`
}

func NewContact(name, email *string) *Contact {
	c := &Contact{}
	if name != nil {
		c.Name = *name
	}
	if email != nil {
		c.Email = *email
	}
	return c
}

func (Contact) DocBuilder() schema.Builder { return schema.Constructor(NewContact, "name", "email") }

type Office struct {
	Building string `doc:"building,string"`
	Floor    *int   `doc:"floor,number"`
}

func NewOffice(building *string, floor *int) *Office {
	o := &Office{Floor: floor}
	if building != nil {
		o.Building = *building
	}
	return o
}

func (Office) DocBuilder() schema.Builder { return schema.Constructor(NewOffice, "building", "floor") }

func sampleContact() *Contact {
	floor := 3
	return &Contact{
		ID:     primitive.NewObjectID(),
		Name:   "Grace Hopper",
		Email:  "grace@example.com",
		Phones: []string{"+1 555 0100"},
		Office: &Office{Building: "Annex", Floor: &floor},
	}
}
