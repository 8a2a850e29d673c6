// Package encodium provides typed, validated record schemas and a compact
// chunked binary wire format for exchanging their instances.
//
// A schema is an ordered list of field specs declared once at startup:
//
//	reg := encodium.NewRegistry()
//	person := reg.MustRegister("Person",
//		encodium.Int("age", encodium.Opts{NonNegative: true}),
//		encodium.String("name", encodium.Opts{MaxLength: 50}),
//		encodium.Bool("diabetic", encodium.Opts{Default: true}),
//	)
//	reg.Freeze()
//
// Construction and mutation validate immediately, so a record that exists is
// always valid:
//
//	john, err := person.New(map[string]any{"age": 25, "name": "John"})
//	if err != nil { ... }
//	err = john.Set("age", -1) // fails, john keeps age 25
//
// Records serialize to a deterministic binary form and back:
//
//	data, _ := john.Encode()
//	again, _ := person.Decode(data)
//	john.Equal(again) // true
//
// # Wire format
//
// A serialized record is a one-byte format marker (0x01) followed by one
// chunk per field in declaration order. An absent field is a single 0x00
// byte; a present field is its payload length in the varlen encoding (see
// pkg/varlen) followed by the payload. Sender and receiver agree on the
// schema out of band; no schema identifier is embedded.
//
// Schemas may reference other schemas, including themselves, by name:
//
//	tree := reg.MustRegister("Tree",
//		encodium.Rec("left", "Tree", encodium.Opts{Optional: true}),
//		encodium.Rec("right", "Tree", encodium.Opts{Optional: true}),
//		encodium.String("value", encodium.Opts{}),
//	)
//
// References resolve through the registry at first use, so a schema can name
// itself or one registered later.
//
// # Concurrency
//
// Register all schemas single-threaded at startup and call Registry.Freeze.
// After that the registry and its schemas are read-only and safe to share
// without locking. Individual records are not safe for concurrent mutation.
package encodium
