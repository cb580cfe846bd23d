// example_test.go: godoc examples for the arcmap package.
//
// These examples appear in the generated documentation on pkg.go.dev
// and are executed as part of the test suite to ensure they remain valid.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arcmap_test

import (
	"fmt"

	"github.com/agilira/arcmap"
)

// ExampleNewMap demonstrates basic map creation and usage.
func ExampleNewMap() {
	m := arcmap.NewMap[string, int]()

	m.Insert("answer", 42)

	if v, found := m.Get("answer"); found {
		fmt.Println(v)
	}

	// Output: 42
}

// ExampleMap_Insert demonstrates that inserting a key already present
// replaces its value rather than adding a second entry.
func ExampleMap_Insert() {
	m := arcmap.NewMap[string, int]()

	m.Insert("count", 1)
	m.Insert("count", 2)

	v, _ := m.Get("count")
	fmt.Println(v, m.Len())

	// Output: 2 1
}

// ExampleMap_Remove demonstrates removing a key and observing the miss.
func ExampleMap_Remove() {
	m := arcmap.NewMap[string, int]()
	m.Insert("user:1", 100)

	m.Remove("user:1")

	if _, found := m.Get("user:1"); !found {
		fmt.Println("not found")
	}

	// Output: not found
}

// ExampleMap_Has demonstrates checking for key presence without copying
// the stored value.
func ExampleMap_Has() {
	m := arcmap.NewMap[string, int]()
	m.Insert("ready", 1)

	fmt.Println(m.Has("ready"), m.Has("missing"))

	// Output: true false
}
