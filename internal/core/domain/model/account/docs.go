// Package account models registration records for admins, shippers and
// drivers. An Account is polymorphic by composition: master shipper and
// driver accounts carry a Specialization payload whose fields share the
// account's field-mask space and JSON surface.
package account
