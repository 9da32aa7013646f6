// Package web exposes the storage server over HTTP/JSON.
//
// Routes (all but /health and /auth/* need "Authorization: Bearer <jwt>"):
//
//	POST /auth/register   {login, password}         201
//	POST /auth/login      {login, password}         200 {"access_token"}
//	GET  /config                                    200 Config
//	PUT  /config          {field, value}            204
//	PUT  /config/sort     {sorted}                  204
//	GET  /folder/{id}                               200 []File
//	GET  /folder?name=a/b                           200 []File
//	POST /folder          {name, parent}            201 File
//	POST /upload          multipart file, destination, file_name   201 File
//	GET  /download/{id}                             200 octet stream
//	GET  /health                                    200 OK
//
// Errors are plain text bodies with the status chosen by statusFor.
package web
