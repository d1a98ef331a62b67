/*
Package runner implements the frame loop that drives a dialogue engine outside of a game.

The engine has no clock of its own: something must call Tick once per frame. The Runner
does that, either as fast as possible with a fixed step (headless runs, tests, CI
transcripts) or paced by a wall-clock ticker (interactive terminal play).

# Key Components

  - Runner: ticks a Driver until its conversation closes, the frame budget runs out,
    the context is cancelled or an interrupt arrives.
  - Feed: an InputReader replaying a key script, optionally confirming on its own
    once the script is exhausted.
  - Transcript: a Presenter writing a readable log of what the box showed.

# Usage

	keys, err := runner.ParseKeys(strings.NewReader("wait 10\ndown\nconfirm\nconfirm"))
	if err != nil {
		log.Fatal(err)
	}
	feed := runner.NewFeed(keys)
	eng, _ := parley.New("dialogues.yaml",
		parley.WithPresenter(runner.NewTranscript(os.Stdout)),
		parley.WithInput(feed),
	)
	if err := eng.BeginNamed(ctx, "truck"); err != nil {
		log.Fatal(err)
	}

	res, err := runner.New(runner.WithFrame(16*time.Millisecond)).Run(ctx, eng)
*/
package runner
