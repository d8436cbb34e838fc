// Package profile records runtime profiles of a doxprep run.
//
// Large example sets and XML directories are processed with several jobs in
// flight; the CPU profile and execution trace show where that time goes, and
// the heap profile shows what the XML trees cost.
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler()
//	err := p.Start()
//	// run the command
//	err = errors.Join(err, p.Stop())
//
// Every profile is disabled until its output path is set.
package profile
