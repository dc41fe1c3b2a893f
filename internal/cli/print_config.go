package cli

import "io"

func cmdPrintConfig(out io.Writer, cfg Config, sources ConfigSources) int {
	fprintln(out, "data_file="+cfg.DataFile)

	if cfg.BackupDir != "" {
		fprintln(out, "backup_dir="+cfg.BackupDir)
	}

	if cfg.MaxBackups != 0 {
		fprintf(out, "max_backups=%d\n", cfg.MaxBackups)
	}

	fprintln(out, "")
	fprintln(out, "# sources")

	if sources.Global == "" && sources.Project == "" {
		fprintln(out, "(defaults only)")
	} else {
		if sources.Global != "" {
			fprintln(out, "global_config="+sources.Global)
		}

		if sources.Project != "" {
			fprintln(out, "project_config="+sources.Project)
		}
	}

	return 0
}
