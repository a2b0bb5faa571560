package testutil

// DocksalHCL defines a user environment with a contextual field, a
// templated field, a plain command field and literals.
const DocksalHCL = `
environment "docksal" {
  label = "Docksal"

  database "primary" {
    type     = "mysql"
    database = "default"
    username = "user"
    password = "user"

    field "host" {
      command = "fin config get --json"
      query = {
        internal = "services.db.host"
        external = "services.db.published_host"
      }
    }
    field "port" {
      command = "fin config get --json"
      query   = "services.db.${connection}_port"
    }
    field "version" {
      command = "fin db version"
    }
  }

  commands = {
    start = "fin project start"
    stop  = "fin project stop"
  }
}
`

// DocksalConfigOutput is what the fake `fin config get --json` prints.
const DocksalConfigOutput = `{"services":{"db":{"host":"db","published_host":"127.0.0.1","internal_port":3306,"external_port":32790}}}`
