// Package validate checks that an entity model can be mapped onto a
// relational schema without ambiguity.
//
// Entity types mapped to the same table must form one structure whose rows
// correlate 1:1, and must agree on every column, key, foreign key and index
// they share. Inheritance hierarchies need discriminators, and store
// functions need store types for their signature.
//
// # Usage
//
//	v, err := validate.New(
//	    validate.WithDialect("postgres"),
//	    validate.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := v.Validate(m); err != nil {
//	    switch validate.KindOf(err) {
//	    case validate.IncompatibleTableNoRelationship:
//	        // ...
//	    }
//	}
//
// Validate stops at the first violation, except for the unreachable members
// of a shared table, which are returned together. Use Violations to list
// them. Warnings never stop a pass; they go to the configured Sink.
//
// Every violation matches veloxcheck.ErrInvalidModel:
//
//	if errors.Is(err, veloxcheck.ErrInvalidModel) {
//	    // ...
//	}
//
// A Validator holds no per-pass state and may validate several models
// concurrently.
package validate
