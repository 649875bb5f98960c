// Package decl defines the structural description of an annotated type
// declaration and loads it from YAML declaration files.
//
// A Declaration is the only input of the derivation core. It is produced
// either by the Go source loader (internal/analyze) or by the YAML loader in
// this package, and it is never mutated once loaded.
//
// # Declaration file
//
//	version: "1"
//	package: geometry
//	imports: [time]
//	declarations:
//	  - name: Point
//	    kind: record
//	    derive: [Default, Add]
//	    fields:
//	      - name: X
//	        type: int
//	        annotations: ["default(value=1, constant)"]
//	      - name: Timeout
//	        type: time.Duration
//	  - name: Shape
//	    kind: tagged-union
//	    repr: sealed
//	    derive: [Default]
//	    variants:
//	      - name: Empty
//	        annotations: [default]
//	      - name: Circle
//	        payload: positional
//	        fields:
//	          - type: float64
//
// Fields without a name are positional; a record must not mix both forms.
package decl
