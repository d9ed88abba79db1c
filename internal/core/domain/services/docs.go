// Package services provides domain services that decide things no single
// aggregate can decide on its own.
//
// The package includes:
//   - RoleTablePolicy: the built-in mapping of intents to the roles allowed to issue them
//   - RulePolicy: a policy loaded from a YAML file of CEL expressions, for
//     deployments that need rules the built-in table does not express
//
// Both answer the same question: may an actor with role R perform intent I
// while the order is in status S. Legality of the transition itself is the
// order aggregate's concern.
package services
