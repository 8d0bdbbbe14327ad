/*
Package cli provides command-line utilities for the meridian command:
output formatting, typed command errors, and signal handling.

Output:

	if err := cli.WriteShipmentTable(os.Stdout, shipments); err != nil {
		return err
	}

Signal handling for graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext()
	defer stop()
*/
package cli
