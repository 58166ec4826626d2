package sqlinline

const QInsertUser = `--sql ce7e0298-021b-45bb-92c5-c520953e2ad1
insert into users(email, password_hash, created_at)
values ($1::text, $2::text, now())
returning id::text, email, password_hash, created_at;
`

const QSelectUserByEmail = `--sql 162add2e-4d0c-49a9-8d97-c4abc78cf722
select id::text, email, password_hash, created_at
from users
where email = $1::text
limit 1;
`
