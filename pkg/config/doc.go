/*
Package config loads rename jobs from configuration files.

	            +-------------+
	            |   Config    |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

Parsers register themselves and are picked by file extension. A file
named .renamerc has no extension and is tried as YAML first, then as HCL.

Every parser decodes on top of New, so a numbering block that only sets
enabled still gets the default start, increment, separator and position.
Unknown keys are errors in every format.

🔍 Example:

	cfg, err := config.Load(ctx, ".renamerc")
	if err != nil {
		return err
	}
	batch, err := rename.Preview(ctx, files, cfg.Rename(), cfg.PreviewOptions()...)
*/
package config
