/*
Package dreamboard is a multi-persona interpretation board: one shared text input
is broadcast to several independent personas, each of which asks an external
generative-text service for its own reading and shows the result in its own panel.

# Concept

The Board owns a single shared input cell, a fixed roster of personas and one
interpreter slot per persona. Triggering a slot snapshots the input, issues
exactly one request and later settles the slot into Success or Error. Slots are
fully independent: a failure, a safety block or a slow reply in one panel never
affects another.

# Usage

	board, err := dreamboard.New(
		dreamboard.WithCredential(os.Getenv("DREAMBOARD_API_KEY")),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer board.Close()

	board.SetInput("I was flying over a city made of glass")
	board.TriggerAll(ctx)
	_ = board.Wait(ctx)

	for _, p := range board.Personas() {
		fmt.Println(p.Name, board.States()[p.ID].Text)
	}

By default the Board loads the embedded persona roster and talks to the Gemini
REST endpoint. Use WithRegistry and WithGenerator to inject your own.
*/
package dreamboard
