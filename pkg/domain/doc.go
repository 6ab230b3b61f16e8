/*
Package domain contains the core domain models of the Dreamboard interpretation board.

It defines the entities shared by the slot state machine, the response classifier
and the adapters. This package is kept pure and free of external dependencies
like I/O or transport, following Hexagonal Architecture principles.

# Key Entities

  - Persona: An immutable interpretation "voice" (instruction template + presentation hints).
  - SlotState: The tagged lifecycle state of one slot (Idle, Loading, Success, Error).
  - Request: The ephemeral prompt built from a persona and an input snapshot.
  - Payload: The decoded reply of the external text-generation service.
  - TransportError: A network or HTTP failure reported by a Generator.
*/
package domain
