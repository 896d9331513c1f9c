/*
Package runner implements a line-oriented front-end for a Lectern presenter.

It reads one command per line, dispatches it and prints the visible part of the
current slide as Markdown, followed by the slide and reveal indicators. It is the
headless counterpart of the terminal presenter and works over pipes:

	printf 'next\nnext\nnext_slide\n' | lectern run deck.json --headless

# Commands

Any text accepted by domain.ParseCommand ("next", "goto 2", "jump intro", ...).
An empty line advances, "help" lists the commands, "quit", "exit" or EOF stop.
A line holding only an arrow, Home, Page Up/Down or Tab key sequence acts like
that key in the terminal presenter (see domain.KeyBindings).

# Usage

	r := runner.NewRunner(
		runner.WithInput(os.Stdin),
		runner.WithOutput(os.Stdout),
	)
	defer r.Close()
	if err := r.Run(ctx, presenter); err != nil {
		log.Fatal(err)
	}
*/
package runner
