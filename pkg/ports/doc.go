/*
Package ports defines the driven ports (interfaces) for the Dreamboard core.

These interfaces decouple the slot state machine from external implementations,
allowing the board to work with various text-generation backends and persona sources.

# Key Interfaces

  - Generator: The outbound text-generation boundary (REST, SDK or in-memory).
  - PersonaLoader: Responsible for loading the persona roster at startup.
*/
package ports
