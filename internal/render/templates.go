package render

// proxyBackendTemplate is the HTTP-only reverse-proxy virtual host for a
// backend deployment. The certificate action upgrades it to TLS after
// issuance; the renderer never emits TLS directives itself.
const proxyBackendTemplate = `server {
    listen 80;
    server_name {{join .ServerNames " "}};

    access_log /var/log/nginx/{{.AppName}}.access.log;
    error_log /var/log/nginx/{{.AppName}}.error.log;

    client_max_body_size {{.MaxBodySize}};

    location /static/ {
        alias {{.WorkDir}}/static/;
        expires 30d;
    }

    location / {
        proxy_pass http://unix:{{.SocketPath}};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
    }
}
`

// proxyFrontendTemplate is the virtual host for a static/SPA frontend.
// Unknown paths fall through to index.html for client-side routing.
const proxyFrontendTemplate = `server {
    listen 80;
    server_name {{join .ServerNames " "}};

    access_log /var/log/nginx/{{.AppName}}.access.log;
    error_log /var/log/nginx/{{.AppName}}.error.log;

    root {{.StaticRoot}};
    index index.html;

    location / {
        try_files $uri $uri/ /index.html;
    }

    location ~* \.(js|css|png|jpg|jpeg|gif|ico|svg|woff2?)$ {
        expires 7d;
        add_header Cache-Control "public";
    }
}
`

// serviceUnitTemplate is the process-manager unit for the application
// server.
const serviceUnitTemplate = `[Unit]
Description={{.Description}}
After=network.target postgresql.service

[Service]
User={{.User}}
Group={{.Group}}
WorkingDirectory={{.WorkDir}}
RuntimeDirectory={{.AppName}}
EnvironmentFile={{.EnvFilePath}}
ExecStart={{.ExecStart}}
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`

// runtimeConfigTemplate is the application-server runtime configuration.
const runtimeConfigTemplate = `bind = "unix:{{.SocketPath}}"
workers = {{.Workers}}
accesslog = "{{.LogDir}}/access.log"
errorlog = "{{.LogDir}}/error.log"
capture_output = True
loglevel = "info"
`

// envFileTemplate emits one KEY=value line per pair, in the given order.
const envFileTemplate = `{{range .Pairs}}{{.Key}}={{.Value}}
{{end}}`
